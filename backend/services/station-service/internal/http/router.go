package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"chargehub/backend/services/station-service/internal/http/handlers"
	"chargehub/backend/services/station-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth     *handlers.AuthHandlers
	Stations *handlers.StationHandlers
	Reviews  *handlers.ReviewHandlers
	Reports  *handlers.ReportHandlers
	EVs      handlers.HandlerFunc
	Live     http.Handler
	Health   http.HandlerFunc
	Logger   *zap.Logger
}

// NewRouter wires HTTP routes. authMiddleware guards every route that needs a session.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	public := func(fn handlers.HandlerFunc) http.Handler {
		return handlers.Handle(deps.Logger, fn)
	}
	authenticated := func(fn handlers.HandlerFunc) http.Handler {
		return middleware.Chain(handlers.Handle(deps.Logger, fn), authMiddleware)
	}

	mux.Handle("GET /health", deps.Health)

	mux.Handle("POST /api/auth/register", public(deps.Auth.Register))
	mux.Handle("POST /api/auth/login", public(deps.Auth.Login))
	mux.Handle("POST /api/auth/firebase", public(deps.Auth.Firebase))
	mux.Handle("POST /api/auth/logout", public(deps.Auth.Logout))
	mux.Handle("GET /api/auth/me", authenticated(deps.Auth.Me))

	mux.Handle("GET /api/station", public(deps.Stations.List))
	mux.Handle("GET /api/station/me", authenticated(deps.Stations.Mine))
	mux.Handle("GET /api/station/saved-stations", authenticated(deps.Stations.Saved))
	if deps.Live != nil {
		mux.Handle("GET /api/station/live", deps.Live)
	}
	mux.Handle("GET /api/station/{id}", public(deps.Stations.Get))
	mux.Handle("POST /api/station/create", authenticated(deps.Stations.Create))
	mux.Handle("PUT /api/station/update/{id}", authenticated(deps.Stations.Update))
	mux.Handle("DELETE /api/station/delete/{id}", authenticated(deps.Stations.Delete))
	mux.Handle("POST /api/station/save/{id}", authenticated(deps.Stations.ToggleSave))
	mux.Handle("POST /api/station/estimate", authenticated(deps.Stations.Estimate))

	mux.Handle("POST /api/review/{stationId}", authenticated(deps.Reviews.Create))
	mux.Handle("GET /api/review/{stationId}", public(deps.Reviews.List))

	mux.Handle("POST /api/report/{stationId}", authenticated(deps.Reports.Create))
	mux.Handle("GET /api/report/{stationId}", authenticated(deps.Reports.List))

	mux.Handle("GET /api/car/evs", authenticated(deps.EVs))

	return mux
}
