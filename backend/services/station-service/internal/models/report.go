package models

import "time"

// Report is an append-only issue report filed against a station.
type Report struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user"`
	StationID   string    `db:"station_id" json:"station"`
	IssueType   string    `db:"issue_type" json:"issueType"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
