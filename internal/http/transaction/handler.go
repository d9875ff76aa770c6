package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/owner"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, ok := ParseFilter(w, r)
	if !ok {
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := ParseFilter(w, r)
	if !ok {
		return
	}

	sum, err := h.svc.Summary(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(sum); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ParseFilter reads the owner and the optional start_date, end_date and
// category query parameters. It writes the error response itself.
func ParseFilter(w http.ResponseWriter, r *http.Request) (transaction.ListFilter, bool) {
	id, ok := owner.From(r.Context())
	if !ok {
		http.Error(w, owner.ErrMissing.Error(), http.StatusUnauthorized)
		return transaction.ListFilter{}, false
	}

	filter := transaction.ListFilter{OwnerID: id}
	q := r.URL.Query()

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		s := q.Get(p.key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid "+p.key, http.StatusBadRequest)
			return transaction.ListFilter{}, false
		}

		*p.dst = &t
	}

	if s := q.Get("category"); s != "" {
		filter.Category = &s
	}

	return filter, true
}
