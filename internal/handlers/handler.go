package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"health-tracker/internal/authz"
	"health-tracker/internal/badges"
	"health-tracker/internal/domain"
	"health-tracker/internal/metrics"
	"health-tracker/internal/middleware"
	"health-tracker/internal/tracker"
)

const maxJSONBody = 1 << 20

// HealthChecker reports whether storage is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler serves the REST API.
type Handler struct {
	svc    *tracker.Service
	badges *badges.Store
	health HealthChecker
	logger *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(svc *tracker.Service, badgeStore *badges.Store, health HealthChecker) *Handler {
	return &Handler{
		svc:    svc,
		badges: badgeStore,
		health: health,
		logger: slog.Default(),
	}
}

// route binds a pattern to its handler. Mutating routes carry the operation
// checked against the caller's role before the handler runs.
type route struct {
	pattern  string
	endpoint string
	op       authz.Operation
	handle   http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		// Users
		{"GET /api/users", metrics.EndpointUsers, "", h.listUsers},
		{"POST /api/users", metrics.EndpointUsers, authz.CreateUser, h.createUser},
		{"GET /api/users/{id}", metrics.EndpointUser, "", h.getUser},
		{"PATCH /api/users/{id}", metrics.EndpointUser, authz.UpdateUser, h.updateUser},
		{"DELETE /api/users/{id}", metrics.EndpointUser, authz.DeleteUser, h.deleteUser},
		// /email/{email}, /{id}/activities and /{id}/achievements overlap as mux patterns
		{"GET /api/users/{id}/{rest}", "", "", h.userSubresource},
		{"DELETE /api/users/{id}/activities", metrics.EndpointUserActivity, authz.DeleteUserActivities, h.deleteUserActivities},
		{"POST /api/users/{id}/activities/map", metrics.EndpointMapActivity, authz.CreateMapActivity, h.createMapActivity},

		// Activities
		{"GET /api/activities", metrics.EndpointActivities, "", h.listActivities},
		{"POST /api/activities", metrics.EndpointActivities, authz.CreateActivity, h.createActivity},
		{"GET /api/activities/{id}", metrics.EndpointActivity, "", h.getActivity},
		{"PATCH /api/activities/{id}", metrics.EndpointActivity, authz.UpdateActivity, h.updateActivity},
		{"DELETE /api/activities/{id}", metrics.EndpointActivity, authz.DeleteActivity, h.deleteActivity},

		// Milestones
		{"GET /api/milestones", metrics.EndpointMilestones, "", h.listMilestones},
		{"POST /api/milestones", metrics.EndpointMilestones, authz.CreateMilestone, h.createMilestone},
		{"GET /api/milestones/{id}", metrics.EndpointMilestone, "", h.getMilestone},
		{"GET /api/milestones/name/{name}", metrics.EndpointMilestone, "", h.getMilestoneByName},
		{"PATCH /api/milestones/{id}", metrics.EndpointMilestone, authz.UpdateMilestone, h.updateMilestone},
		{"DELETE /api/milestones/{id}", metrics.EndpointMilestone, authz.DeleteMilestone, h.deleteMilestone},

		// Achievements
		{"GET /api/achievements", metrics.EndpointAchievements, "", h.listAchievements},
		{"POST /api/achievements", metrics.EndpointAchievements, authz.CreateAchievement, h.createAchievement},
		{"GET /api/achievements/{id}", metrics.EndpointAchievement, "", h.getAchievement},
		{"PATCH /api/achievements/{id}", metrics.EndpointAchievement, authz.UpdateAchievement, h.updateAchievement},
		{"DELETE /api/achievements/{id}", metrics.EndpointAchievement, authz.DeleteAchievement, h.deleteAchievement},

		{"GET /health", metrics.EndpointHealth, "", h.handleHealth},
	}
}

// Routes returns the HTTP handler for the whole API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range h.routes() {
		fn := rt.handle
		if rt.op != "" {
			fn = h.admin(rt.op, fn)
		}
		if rt.endpoint == "" {
			mux.Handle(rt.pattern, fn)
			continue
		}
		mux.Handle(rt.pattern, middleware.WrapHandler(rt.endpoint, fn))
	}
	if h.badges != nil {
		mux.Handle("GET "+badges.PublicPrefix, middleware.WrapHandler(metrics.EndpointUploads, h.badges.Handler().ServeHTTP))
	}
	return mux
}

// userSubresource routes GET /api/users/email/{email}, /api/users/{id}/activities
// and /api/users/{id}/achievements.
func (h *Handler) userSubresource(w http.ResponseWriter, r *http.Request) {
	id, rest := r.PathValue("id"), r.PathValue("rest")
	switch {
	case id == "email":
		r.SetPathValue("email", rest)
		middleware.WrapHandler(metrics.EndpointUserByEmail, h.getUserByEmail).ServeHTTP(w, r)
	case rest == "activities":
		middleware.WrapHandler(metrics.EndpointUserActivity, h.listUserActivities).ServeHTTP(w, r)
	case rest == "achievements":
		middleware.WrapHandler(metrics.EndpointUserAwards, h.listEarnedAchievements).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// admin rejects the request with 403 unless the caller's role may perform op.
func (h *Handler) admin(op authz.Operation, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authz.Authorize(r.Header.Get(authz.RoleHeader), op); err != nil {
			h.logger.Warn("Mutation denied", "operation", op, "path", r.URL.Path)
			h.writeError(w, err)
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			h.logger.Error("Health check failed", "error", err)
			http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service errors onto status codes. Unknown errors are
// storage faults and are not echoed to the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "Admin role required.", http.StatusForbidden)
	case errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeAffected answers an update or delete: 204 when a row changed, 404 otherwise.
func (h *Handler) writeAffected(w http.ResponseWriter, rows int64, err error, notFound string) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rows == 0 {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id parameter", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}
