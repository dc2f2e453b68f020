package cache

import (
	"context"
	"fmt"
)

// Mutation names a write that can make cached reads stale.
type Mutation int

const (
	StationCreated Mutation = iota
	StationUpdated
	StationDeleted
	StationSaveToggled
	ReviewCreated
	ReportCreated
)

func (m Mutation) String() string {
	switch m {
	case StationCreated:
		return "station.created"
	case StationUpdated:
		return "station.updated"
	case StationDeleted:
		return "station.deleted"
	case StationSaveToggled:
		return "station.save_toggled"
	case ReviewCreated:
		return "review.created"
	case ReportCreated:
		return "report.created"
	}
	return fmt.Sprintf("mutation(%d)", int(m))
}

// Target identifies the entities touched by a mutation.
type Target struct {
	StationID string
	OwnerID   string
	UserID    string
}

// Plan lists what a mutation must invalidate.
type Plan struct {
	// StationLists drops every filtered stations:* variant.
	StationLists bool
	Keys         []string
}

// PlanFor returns the invalidation plan for m. Every mutation's key set is spelled out here.
func PlanFor(m Mutation, t Target) Plan {
	switch m {
	case StationCreated:
		return Plan{StationLists: true, Keys: []string{MyStationsKey(t.OwnerID)}}
	case StationUpdated, StationDeleted:
		return Plan{StationLists: true, Keys: []string{MyStationsKey(t.OwnerID), StationKey(t.StationID)}}
	case StationSaveToggled:
		return Plan{Keys: []string{SavedStationsKey(t.UserID)}}
	case ReviewCreated, ReportCreated:
		return Plan{Keys: []string{StationKey(t.StationID)}}
	}
	return Plan{}
}

// Invalidate applies the plan for m against the store.
func (s *Store) Invalidate(ctx context.Context, m Mutation, t Target) error {
	plan := PlanFor(m, t)
	if plan.StationLists {
		if err := s.DeleteIndexed(ctx, StationsIndex); err != nil {
			return fmt.Errorf("cache: invalidate %s lists: %w", m, err)
		}
	}
	if err := s.Delete(ctx, plan.Keys...); err != nil {
		return fmt.Errorf("cache: invalidate %s: %w", m, err)
	}
	return nil
}
