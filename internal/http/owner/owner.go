// Package owner carries the caller-supplied owner identity through a request.
package owner

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

const Header = "X-Owner-ID"

var ErrMissing = errors.New("missing or invalid " + Header + " header")

type ctxKey struct{}

// Require rejects requests without a valid owner header.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(Header))
		if err != nil || id == uuid.Nil {
			http.Error(w, ErrMissing.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func From(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
