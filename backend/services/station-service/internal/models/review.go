package models

import "time"

// Review is a single user's rating of a station.
type Review struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user"`
	StationID string    `db:"station_id" json:"station"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ReviewWithAuthor is a review populated with the reviewer's display name.
type ReviewWithAuthor struct {
	Review
	UserName string `json:"userName"`
}
