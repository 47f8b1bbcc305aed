package handlers

import (
	"net/http"
)

func (h *Handler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.Store.ListCourses()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, courses)
}

// HandleSections returns the timetable slots for ?materiaIds=1,2 so the
// frontend can offer concrete section times.
func (h *Handler) HandleSections(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("materiaIds"))
	if err != nil {
		renderError(w, err)
		return
	}

	slots, err := h.service.Store.ListSlotsByCourses(ids)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, slots)
}

func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Store.Ping(); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
