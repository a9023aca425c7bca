package report

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type Handler struct{}

// Generate renders a report posted as JSON.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Report
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
