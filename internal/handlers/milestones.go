package handlers

import (
	"net/http"

	"health-tracker/internal/domain"
)

func (h *Handler) listMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.svc.ListMilestones(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, milestones)
}

func (h *Handler) getMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	milestone, err := h.svc.GetMilestone(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if milestone == nil {
		http.Error(w, "Milestone not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, milestone)
}

func (h *Handler) getMilestoneByName(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.svc.GetMilestoneByName(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if milestone == nil {
		http.Error(w, "Milestone not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, milestone)
}

func (h *Handler) createMilestone(w http.ResponseWriter, r *http.Request) {
	var milestone domain.Milestone
	if !decodeJSON(w, r, &milestone) {
		return
	}
	created, err := h.svc.CreateMilestone(r.Context(), milestone)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var milestone domain.Milestone
	if !decodeJSON(w, r, &milestone) {
		return
	}
	rows, err := h.svc.UpdateMilestone(r.Context(), id, milestone)
	h.writeAffected(w, rows, err, "Milestone not found")
}

func (h *Handler) deleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DeleteMilestone(r.Context(), id)
	h.writeAffected(w, rows, err, "Milestone not found")
}
