package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/cache"
	"chargehub/backend/services/station-service/internal/live"
	"chargehub/backend/services/station-service/internal/models"
	"chargehub/backend/services/station-service/internal/repository"
)

type fakeStationRepo struct {
	mu       sync.Mutex
	stations map[string]models.Station
	reads    int
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: make(map[string]models.Station)}
}

func (r *fakeStationRepo) Create(_ context.Context, s *models.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.stations[s.ID] = *s
	return nil
}

func (r *fakeStationRepo) GetByID(_ context.Context, id string) (*models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	s, ok := r.stations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStationRepo) List(_ context.Context, f models.StationFilters) ([]models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	out := []models.Station{}
	for _, s := range r.stations {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStationRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	out := []models.Station{}
	for _, s := range r.stations {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStationRepo) Update(_ context.Context, s *models.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.stations[s.ID]
	if !ok || cur.OwnerID != s.OwnerID {
		return repository.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.stations[s.ID] = *s
	return nil
}

func (r *fakeStationRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.stations[id]
	if !ok || cur.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.stations, id)
	return nil
}

func (r *fakeStationRepo) UpdateAverageRating(_ context.Context, id string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.stations[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.AverageRating = rating
	r.stations[id] = cur
	return nil
}

func (r *fakeStationRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	saved  map[string][]string
	byID   func(id string) *models.Station
	linked map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*models.User),
		saved:  make(map[string][]string),
		linked: make(map[string]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) LinkFirebase(_ context.Context, userID, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linked[userID] = uid
	if u, ok := r.users[userID]; ok {
		u.FirebaseUID = uid
	}
	return nil
}

func (r *fakeUserRepo) IsStationSaved(_ context.Context, userID, stationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saved[userID] {
		if id == stationID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SaveStation(_ context.Context, userID, stationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saved[userID] {
		if id == stationID {
			return nil
		}
	}
	r.saved[userID] = append(r.saved[userID], stationID)
	return nil
}

func (r *fakeUserRepo) UnsaveStation(_ context.Context, userID, stationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.saved[userID][:0]
	for _, id := range r.saved[userID] {
		if id != stationID {
			ids = append(ids, id)
		}
	}
	r.saved[userID] = ids
	return nil
}

func (r *fakeUserRepo) SavedStationIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.saved[userID]...), nil
}

func (r *fakeUserRepo) SavedStations(ctx context.Context, userID string) ([]models.Station, error) {
	ids, _ := r.SavedStationIDs(ctx, userID)
	out := []models.Station{}
	for _, id := range ids {
		if r.byID != nil {
			if s := r.byID(id); s != nil {
				out = append(out, *s)
			}
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.UserID == review.UserID && rv.StationID == review.StationID {
			return repository.ErrDuplicate
		}
	}
	review.CreatedAt = time.Now().UTC()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) RatingsForStation(_ context.Context, stationID string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, rv := range r.reviews {
		if rv.StationID == stationID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListForStation(_ context.Context, stationID string) ([]models.ReviewWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ReviewWithAuthor
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].StationID == stationID {
			out = append(out, models.ReviewWithAuthor{Review: r.reviews[i], UserName: "user-" + r.reviews[i].UserID})
		}
	}
	return out, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []models.Report
}

func (r *fakeReportRepo) Create(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.CreatedAt = time.Now().UTC()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeReportRepo) ListForStation(_ context.Context, stationID string) ([]models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Report
	for _, rp := range r.reports {
		if rp.StationID == stationID {
			out = append(out, rp)
		}
	}
	return out, nil
}

type fakeEVRepo struct {
	evs map[string]models.EV
}

func (r *fakeEVRepo) List(context.Context) ([]models.EV, error) {
	out := make([]models.EV, 0, len(r.evs))
	for _, ev := range r.evs {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeEVRepo) GetByID(_ context.Context, id string) (*models.EV, error) {
	ev, ok := r.evs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ev, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []live.Event
}

func (p *recordingPublisher) Publish(e live.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	redis     *miniredis.Miniredis
	store     *cache.Store
	stations  *fakeStationRepo
	users     *fakeUserRepo
	reviews   *fakeReviewRepo
	reports   *fakeReportRepo
	evs       *fakeEVRepo
	publisher *recordingPublisher

	stationSvc *StationService
	reviewSvc  *ReviewService
	reportSvc  *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &fixture{
		redis:     srv,
		store:     cache.NewStore(client, time.Hour),
		stations:  newFakeStationRepo(),
		users:     newFakeUserRepo(),
		reviews:   &fakeReviewRepo{},
		reports:   &fakeReportRepo{},
		evs:       &fakeEVRepo{evs: map[string]models.EV{"ev-1": {ID: "ev-1", Name: "Test EV", Manufacturer: "Acme", BatteryCapacity: 50}}},
		publisher: &recordingPublisher{},
	}
	f.users.byID = func(id string) *models.Station {
		s, err := f.stations.GetByID(context.Background(), id)
		if err != nil {
			return nil
		}
		return s
	}
	logger := zap.NewNop()
	f.stationSvc = NewStationService(f.stations, f.users, f.store, NewEstimator(f.evs), f.publisher, logger)
	f.reviewSvc = NewReviewService(f.reviews, f.stations, f.store, logger)
	f.reportSvc = NewReportService(f.reports, f.stations, f.store, logger)
	return f
}

func (f *fixture) createStation(t *testing.T, owner, name string) *models.Station {
	t.Helper()
	s, err := f.stationSvc.Create(context.Background(), owner, StationInput{
		Name:          name,
		Address:       "1 Main St",
		Latitude:      52.1,
		Longitude:     4.3,
		PowerOutput:   50,
		ConnectorType: "CCS",
		PricePerKWh:   0.4,
		Amenities:     []string{"wifi"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return s
}
