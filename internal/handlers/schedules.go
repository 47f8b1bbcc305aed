package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/models"
)

func (h *Handler) HandleScheduleList(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	schedules, err := h.service.Schedules.List(sess.StudentID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, schedules)
}

func (h *Handler) HandleScheduleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, err)
		return
	}

	schedule, err := h.service.Schedules.Get(sess.StudentID, id)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, schedule)
}

func (h *Handler) HandleScheduleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	req, err := decodeScheduleRequest(r)
	if err != nil {
		renderError(w, err)
		return
	}

	schedule, err := h.service.Schedules.Create(sess.StudentID, *req)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, schedule)
}

func (h *Handler) HandleScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, err)
		return
	}

	req, err := decodeScheduleRequest(r)
	if err != nil {
		renderError(w, err)
		return
	}

	schedule, err := h.service.Schedules.Update(sess.StudentID, id, *req)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, schedule)
}

func (h *Handler) HandleScheduleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, err)
		return
	}

	if err := h.service.Schedules.Delete(sess.StudentID, id); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeScheduleRequest(r *http.Request) (*models.CreateScheduleRequest, error) {
	var req models.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperr.InvalidInput("cuerpo de la petición inválido")
	}
	if err := req.Validate(); err != nil {
		return nil, apperr.InvalidInput("cronograma inválido: %v", err)
	}
	return &req, nil
}
