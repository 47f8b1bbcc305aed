package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/export"
	"github.com/cruma-app/cruma/internal/models"
)

// HandleExportPDF renders the posted blocks as a weekly-grid PDF attachment.
func (h *Handler) HandleExportPDF(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session(r); err != nil {
		renderError(w, err)
		return
	}

	var blocks []models.ExportBlock
	if err := json.NewDecoder(r.Body).Decode(&blocks); err != nil {
		renderError(w, apperr.InvalidInput("cuerpo de la petición inválido"))
		return
	}

	pdf, err := export.RenderWeeklyGrid(blocks)
	if err != nil {
		renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cronogramaCRUMA.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}
