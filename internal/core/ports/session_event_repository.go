package ports

import (
	"context"

	"github.com/vidhub/account-service/internal/core/domain"
)

// SessionEventRepository persists the session audit trail.
type SessionEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.SessionEvent) error
}

// SessionEventPublisher hands events to the asynchronous audit pipeline.
// Publish never blocks the request path.
type SessionEventPublisher interface {
	Publish(event domain.SessionEvent)
}
