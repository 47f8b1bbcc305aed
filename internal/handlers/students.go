package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cruma-app/cruma/internal/apperr"
)

func (h *Handler) HandleStudentList(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Store.ListStudents()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, students)
}

// HandleStudentDelete removes a student; the schema cascades the student's
// providers, statuses and schedules away with the row.
func (h *Handler) HandleStudentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, apperr.InvalidInput("id inválido: %s", chi.URLParam(r, "id")))
		return
	}

	if err := h.service.Store.DeleteStudent(id); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
