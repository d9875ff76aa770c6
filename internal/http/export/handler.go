package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/export"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
	r.Get("/report", h.report)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, ok := txHandler.ParseFilter(w, r)
	if !ok {
		return
	}

	// Buffered so a failed listing still gets a clean error status.
	var buf bytes.Buffer
	if _, err := h.svc.WriteCSV(r.Context(), filter, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	filter, ok := txHandler.ParseFilter(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.Export(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(export.Report(rows))); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
