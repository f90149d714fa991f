package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// generationLockTTL bounds how long a crashed run can hold its lock.
const generationLockTTL = 5 * time.Minute

// GenerationLock serializes generation runs per user with a Redis SETNX
// lock. A user gets one run at a time; a second request while the first is
// still working fails with ErrGenerationInFlight.
type GenerationLock struct {
	redis *redis.Client
}

func NewGenerationLock(redisClient *redis.Client) *GenerationLock {
	return &GenerationLock{redis: redisClient}
}

func lockKey(userID uuid.UUID) string {
	return fmt.Sprintf("recipe:generate:lock:%s", userID)
}

// Acquire takes the user's lock. It returns a release function on success
// and ErrGenerationInFlight when another run already holds it.
func (l *GenerationLock) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := lockKey(userID)
	ok, err := l.redis.SetNX(ctx, key, time.Now().Unix(), generationLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if !ok {
		return nil, ErrGenerationInFlight
	}
	release := func() {
		// Release must work even when the request context is already gone.
		if err := l.redis.Del(context.Background(), key).Err(); err != nil {
			log.Printf("[GenerationLock] failed to release %s: %v", key, err)
		}
	}
	return release, nil
}
