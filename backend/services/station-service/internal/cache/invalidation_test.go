package cache

import (
	"context"
	"reflect"
	"testing"

	"chargehub/backend/services/station-service/internal/models"
)

func TestPlanFor(t *testing.T) {
	target := Target{StationID: "s1", OwnerID: "owner", UserID: "u1"}

	cases := []struct {
		mutation Mutation
		want     Plan
	}{
		{StationCreated, Plan{StationLists: true, Keys: []string{"myStations:owner"}}},
		{StationUpdated, Plan{StationLists: true, Keys: []string{"myStations:owner", "station:s1"}}},
		{StationDeleted, Plan{StationLists: true, Keys: []string{"myStations:owner", "station:s1"}}},
		{StationSaveToggled, Plan{Keys: []string{"savedStations:u1"}}},
		{ReviewCreated, Plan{Keys: []string{"station:s1"}}},
		{ReportCreated, Plan{Keys: []string{"station:s1"}}},
	}
	for _, tc := range cases {
		t.Run(tc.mutation.String(), func(t *testing.T) {
			if got := PlanFor(tc.mutation, target); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSaveToggleLeavesStationEntryUntouched(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, StationKey("s1"), models.Station{ID: "s1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, SavedStationsKey("u1"), []models.Station{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := store.Invalidate(ctx, StationSaveToggled, Target{UserID: "u1", StationID: "s1"}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if srv.Exists(SavedStationsKey("u1")) {
		t.Fatalf("saved list should be invalidated")
	}
	if !srv.Exists(StationKey("s1")) {
		t.Fatalf("station entry must survive a save toggle")
	}
}
