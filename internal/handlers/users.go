package handlers

import (
	"net/http"

	"health-tracker/internal/domain"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUserByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if !decodeJSON(w, r, &user) {
		return
	}
	created, err := h.svc.CreateUser(r.Context(), user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var user domain.User
	if !decodeJSON(w, r, &user) {
		return
	}
	rows, err := h.svc.UpdateUser(r.Context(), id, user)
	h.writeAffected(w, rows, err, "User not found")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DeleteUser(r.Context(), id)
	h.writeAffected(w, rows, err, "User not found")
}

func (h *Handler) listEarnedAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	earned, err := h.svc.EarnedAchievements(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, earned)
}
