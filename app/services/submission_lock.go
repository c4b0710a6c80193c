// Package services provides external service integrations and technical concerns like notifications, tokens and file storage
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotObtained = errors.New("lock not obtained")

// SubmissionLocker serializes review submissions for the same sales rep
type SubmissionLocker interface {
	// Obtain acquires the lock for key. The returned release func is always safe to call.
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// RedisSubmissionLocker implements SubmissionLocker with redislock
type RedisSubmissionLocker struct {
	client *redislock.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSubmissionLocker(rc *redis.Client, prefix string, ttl time.Duration) SubmissionLocker {
	return &RedisSubmissionLocker{
		client: redislock.New(rc),
		prefix: prefix,
		ttl:    ttl,
	}
}

func (l *RedisSubmissionLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lockKey := l.prefix + "lock:" + key
	lock, err := l.client.Obtain(ctx, lockKey, l.ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return func() {}, ErrLockNotObtained
		}
		return func() {}, fmt.Errorf("failed to obtain lock %s: %w", lockKey, err)
	}

	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Printf("failed to release lock %s: %v", lockKey, err)
		}
	}, nil
}

// NoopSubmissionLocker never blocks
type NoopSubmissionLocker struct{}

func NewNoopSubmissionLocker() SubmissionLocker {
	return NoopSubmissionLocker{}
}

func (NoopSubmissionLocker) Obtain(context.Context, string) (func(), error) {
	return func() {}, nil
}
