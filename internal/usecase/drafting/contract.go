package drafting

import (
	"context"

	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
)

// store is what the service needs from the draft repository.
type store interface {
	Save(ctx context.Context, clientID string, fields scanrequest.Fields) error
	Load(ctx context.Context, clientID string) (scanrequest.Fields, error)
	Clear(ctx context.Context, clientID string) error
}
