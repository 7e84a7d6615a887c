package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 5 * time.Second

// releaseScript deletes the lock only if it still holds our token, so a
// holder whose TTL lapsed cannot free a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RotationLock serialises refresh-token rotation per user across replicas.
// Key format: refresh-lock:<user_id>
type RotationLock struct {
	client *redis.Client
}

// NewRotationLock creates a RotationLock wrapping the given Redis client.
func NewRotationLock(client *redis.Client) *RotationLock {
	return &RotationLock{client: client}
}

// Acquire takes the lock for userID with SET NX. It reports false without
// error when another holder has it.
func (l *RotationLock) Acquire(ctx context.Context, userID string, ttl time.Duration) (func(), bool, error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	key := l.key(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("rotation lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func (l *RotationLock) key(userID string) string {
	return fmt.Sprintf("refresh-lock:%s", userID)
}
