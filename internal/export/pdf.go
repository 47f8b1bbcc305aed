// Package export renders a resolved schedule as a weekly time-grid PDF.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/models"
)

const (
	gridStartHour = 8
	gridEndHour   = 23 // last row is 23:05
	pageMargin    = 8.0
	headerHeight  = 7.0
)

var dayHeaders = []string{"Hora", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// minutesOf parses "HH:MM" into minutes since midnight.
func minutesOf(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, apperr.InvalidInput("hora inválida: %s", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, apperr.InvalidInput("hora inválida: %s", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, apperr.InvalidInput("hora inválida: %s", value)
	}
	return h*60 + m, nil
}

// RenderWeeklyGrid draws the blocks on an A4-landscape grid, 08:00 to 23:05,
// one column per weekday, and returns the PDF bytes.
func RenderWeeklyGrid(blocks []models.ExportBlock) ([]byte, error) {
	for i := range blocks {
		if err := blocks[i].Validate(); err != nil {
			return nil, apperr.InvalidInput("bloque inválido: %v", err)
		}
	}

	sorted := make([]models.ExportBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	usableW := pageW - 2*pageMargin
	hourColW := usableW * 0.1
	dayColW := (usableW - hourColW) / 6.0

	// header row
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(12, 192, 223)
	pdf.SetTextColor(255, 255, 255)
	x := pageMargin
	for i, h := range dayHeaders {
		w := dayColW
		if i == 0 {
			w = hourColW
		}
		pdf.SetXY(x, pageMargin)
		pdf.CellFormat(w, headerHeight, tr(h), "1", 0, "C", true, 0, "")
		x += w
	}

	gridTop := pageMargin + headerHeight
	gridBottom := pageH - pageMargin
	gridHeight := gridBottom - gridTop
	totalMinutes := float64((gridEndHour-gridStartHour)*60 + 5)
	yFor := func(minutes int) float64 {
		return gridTop + gridHeight*float64(minutes-gridStartHour*60)/totalMinutes
	}

	// hour scale and horizontal guides every 30 minutes
	pdf.SetTextColor(60, 60, 60)
	pdf.SetDrawColor(210, 210, 210)
	pdf.SetFont("Helvetica", "", 6)
	for m := gridStartHour * 60; m <= gridEndHour*60; m += 30 {
		y := yFor(m)
		pdf.Line(pageMargin, y, pageMargin+usableW, y)
		label := fmt.Sprintf("%02d:%02d", m/60, m%60)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(hourColW, 3, label, "", 0, "C", false, 0, "")
	}

	// column separators
	pdf.SetDrawColor(120, 120, 120)
	x = pageMargin
	for i := 0; i <= len(dayHeaders); i++ {
		pdf.Line(x, gridTop, x, gridBottom)
		if i == 0 {
			x += hourColW
		} else {
			x += dayColW
		}
	}
	pdf.Line(pageMargin, gridBottom, pageMargin+usableW, gridBottom)

	// blocks
	for _, b := range sorted {
		start, err := minutesOf(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := minutesOf(b.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, apperr.InvalidInput("rango horario inválido: %s-%s", b.StartTime, b.EndTime)
		}

		blockX := pageMargin + hourColW + float64(b.Weekday-1)*dayColW
		blockY := yFor(start)
		blockH := yFor(end) - blockY

		pdf.SetFillColor(221, 246, 255)
		pdf.SetDrawColor(120, 120, 120)
		pdf.Rect(blockX, blockY, dayColW, blockH, "FD")

		title := b.CourseName
		if b.Section != "" {
			title = fmt.Sprintf("%s (%s)", b.CourseName, b.Section)
		}
		timeRange := fmt.Sprintf("%s - %s", b.StartTime, b.EndTime)

		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "", 6)
		pdf.SetXY(blockX, blockY+blockH/2-3)
		pdf.CellFormat(dayColW, 3, tr(title), "", 2, "C", false, 0, "")
		pdf.CellFormat(dayColW, 3, timeRange, "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
