package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/models"
)

// HandlePrereqsAll returns the prerequisite sets of every course with edges.
func (h *Handler) HandlePrereqsAll(w http.ResponseWriter, r *http.Request) {
	prereqs, err := h.service.Prereqs.All()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, prereqs)
}

// HandlePrereqsBatch returns prerequisite sets for ?materiaIds=1,2,3.
func (h *Handler) HandlePrereqsBatch(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("materiaIds"))
	if err != nil {
		renderError(w, err)
		return
	}

	prereqs, err := h.service.Prereqs.ByCourses(ids)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, prereqs)
}

func (h *Handler) HandlePrereqsByCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "materiaId")
	if err != nil {
		renderError(w, err)
		return
	}

	prereqs, err := h.service.Prereqs.ByCourse(int(id))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, prereqs)
}

// HandleStatusGet returns the stored status set with its summary.
func (h *Handler) HandleStatusGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	resp, err := h.service.Prereqs.Statuses(sess.StudentID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, resp)
}

// HandleStatusSave replaces the student's whole status set; entries omitted
// from the body are dropped, not kept.
func (h *Handler) HandleStatusSave(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	var entries []models.CourseStatusEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		renderError(w, apperr.InvalidInput("cuerpo de la petición inválido"))
		return
	}

	req := models.SaveStatusRequest{Entries: entries}
	if err := req.Validate(); err != nil {
		renderError(w, apperr.InvalidInput("estados inválidos: %v", err))
		return
	}

	resp, err := h.service.Prereqs.SaveStatuses(sess.StudentID, entries)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, resp)
}

func parseIDList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperr.InvalidInput("materiaIds es requerido")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, apperr.InvalidInput("materiaId inválido: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
