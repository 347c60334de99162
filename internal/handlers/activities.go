package handlers

import (
	"net/http"

	"health-tracker/internal/domain"
)

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	activity, err := h.svc.GetActivity(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if activity == nil {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, activity)
}

func (h *Handler) listUserActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	activities, err := h.svc.ActivitiesForUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var activity domain.Activity
	if !decodeJSON(w, r, &activity) {
		return
	}
	created, err := h.svc.CreateActivity(r.Context(), activity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// createMapActivity handles POST /api/users/{id}/activities/map with a body of
// {"startLat", "startLng", "endLat", "endLng"}.
func (h *Handler) createMapActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.MapRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.svc.CreateActivityFromMap(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var activity domain.Activity
	if !decodeJSON(w, r, &activity) {
		return
	}
	rows, err := h.svc.UpdateActivity(r.Context(), id, activity)
	h.writeAffected(w, rows, err, "Activity not found")
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DeleteActivity(r.Context(), id)
	h.writeAffected(w, rows, err, "Activity not found")
}

func (h *Handler) deleteUserActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DeleteUserActivities(r.Context(), id)
	h.writeAffected(w, rows, err, "No activities found")
}
