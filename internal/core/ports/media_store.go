package ports

import (
	"context"
	"time"
)

// MediaStore uploads a local file and returns its public URL. An empty path
// yields an empty URL and no error. The caller owns the local file and must
// remove it whatever the outcome.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// RotationLock serialises refresh-token rotation per user id across
// processes. Acquire reports false when another rotation holds the lock.
type RotationLock interface {
	Acquire(ctx context.Context, userID string, ttl time.Duration) (release func(), acquired bool, err error)
}
