// utils/lock.go
package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Lock is a best-effort Redis advisory lock (SET NX PX). It serializes
// admin approval processing per record and rank cascades per member chain.
// When Redis is unavailable the engine still behaves correctly thanks to
// the compare-and-set status transitions; the lock only removes needless
// write conflicts.
type Lock struct {
	client *redis.Client
	key    string
	token  string
}

// AcquireLock tries to take the named lock for ttl. It returns (nil, false)
// without error when the lock is held elsewhere, and (nil, true) when Redis
// is not configured so callers can proceed unlocked.
func AcquireLock(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (*Lock, bool, error) {
	if client == nil {
		return nil, true, nil
	}

	token := uuid.New().String()
	ok, err := client.SetNX(ctx, "lock:"+key, token, ttl).Result()
	if err != nil {
		// Redis being down must not block approvals.
		return nil, true, nil
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{client: client, key: "lock:" + key, token: token}, true, nil
}

// Release frees the lock if it is still owned by this holder.
func (l *Lock) Release(ctx context.Context) {
	if l == nil {
		return
	}
	// Compare-and-delete so an expired lock taken over by another holder is
	// never released from here.
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		end
		return 0
	`)
	_, _ = script.Run(ctx, l.client, []string{l.key}, l.token).Result()
}
