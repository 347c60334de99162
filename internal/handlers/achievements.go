package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"health-tracker/internal/domain"
)

const maxBadgeUpload = 10 << 20

func (h *Handler) listAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.svc.ListAchievements(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, achievements)
}

func (h *Handler) getAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	achievement, err := h.svc.GetAchievement(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if achievement == nil {
		http.Error(w, "Achievement not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, achievement)
}

// achievementForm holds the multipart fields present on a request. Nil means
// absent; blank text fields count as absent.
type achievementForm struct {
	name        *string
	description *string
	target      *float64
	badge       *multipart.FileHeader
}

// readAchievementForm parses the multipart form. Nothing is written to disk.
func readAchievementForm(r *http.Request) (achievementForm, error) {
	var form achievementForm

	if err := r.ParseMultipartForm(maxBadgeUpload); err != nil {
		return form, fmt.Errorf("%w: expected multipart form data", domain.ErrInvalidInput)
	}

	form.name = formText(r.MultipartForm, "name")
	form.description = formText(r.MultipartForm, "description")
	if raw := formText(r.MultipartForm, "targetDistanceKm"); raw != nil {
		target, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
		if err != nil {
			return form, fmt.Errorf("%w: targetDistanceKm must be a number", domain.ErrInvalidInput)
		}
		form.target = &target
	}
	if files := r.MultipartForm.File["badge"]; len(files) > 0 {
		form.badge = files[0]
	}

	return form, nil
}

func formText(form *multipart.Form, field string) *string {
	values := form.Value[field]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil
	}
	return &values[0]
}

// storeBadge writes the uploaded badge and returns its public path.
func (h *Handler) storeBadge(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%w: unreadable badge upload", domain.ErrInvalidInput)
	}
	defer file.Close()
	return h.badges.Save(header.Filename, file)
}

// discardBadge removes a badge stored for a request that then failed.
func (h *Handler) discardBadge(path string) {
	if err := h.badges.Remove(path); err != nil {
		h.logger.Warn("Failed to remove orphaned badge", "badge_path", path, "error", err)
	}
}

func (h *Handler) createAchievement(w http.ResponseWriter, r *http.Request) {
	form, err := readAchievementForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if form.name == nil || form.description == nil || form.target == nil || form.badge == nil {
		http.Error(w, "Missing form fields", http.StatusBadRequest)
		return
	}

	achievement := domain.Achievement{
		Name:             *form.name,
		Description:      *form.description,
		TargetDistanceKm: *form.target,
	}
	if err := achievement.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	achievement.BadgePath, err = h.storeBadge(form.badge)
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.svc.CreateAchievement(r.Context(), achievement)
	if err != nil {
		h.discardBadge(achievement.BadgePath)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// updateAchievement keeps the current value of any field the form omits.
func (h *Handler) updateAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	current, err := h.svc.GetAchievement(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if current == nil {
		http.Error(w, "Achievement not found", http.StatusNotFound)
		return
	}

	form, err := readAchievementForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated := *current
	if form.name != nil {
		updated.Name = *form.name
	}
	if form.description != nil {
		updated.Description = *form.description
	}
	if form.target != nil {
		updated.TargetDistanceKm = *form.target
	}
	if err := updated.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	var stored string
	if form.badge != nil {
		stored, err = h.storeBadge(form.badge)
		if err != nil {
			h.writeError(w, err)
			return
		}
		updated.BadgePath = stored
	}

	rows, err := h.svc.UpdateAchievement(r.Context(), id, updated)
	if stored != "" && (err != nil || rows == 0) {
		h.discardBadge(stored)
	}
	h.writeAffected(w, rows, err, "Achievement not found")
}

func (h *Handler) deleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DeleteAchievement(r.Context(), id)
	h.writeAffected(w, rows, err, "Achievement not found")
}
