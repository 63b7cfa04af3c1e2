package submitting

import "context"

// Mailer delivers an assembled scan request payload. One attempt per
// submission; the service never retries.
type Mailer interface {
	Send(ctx context.Context, params map[string]string) error
}

// DraftStore clears a client's persisted draft after successful delivery.
type DraftStore interface {
	Clear(ctx context.Context, clientID string) error
}
