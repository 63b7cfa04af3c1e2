package chi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ClientIDHeader carries the caller's stable identity. Browsers persist
// the value they are handed and replay it on every request, which scopes
// drafts, search history, and preferences per visitor.
const ClientIDHeader = "X-Client-ID"

type clientIDKey struct{}

// ClientIDFromContext returns the client ID set by ClientIDMiddleware.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}

// ClientIDMiddleware reads the client ID header, minting a fresh UUID
// when the header is missing or malformed. The effective ID is echoed in
// the response so new clients learn theirs.
func ClientIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(ClientIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(ClientIDHeader, id)
			ctx := context.WithValue(r.Context(), clientIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
