package scheduling

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// PractitionerLocker serializes booking writers for one practitioner. The
// lock spans the conflict check and the insert; it is released immediately
// after commit or rollback.
type PractitionerLocker interface {
	// Acquire blocks briefly for the lock and returns a release func.
	// Returns *TransientError when the lock cannot be obtained in time.
	Acquire(ctx context.Context, practitionerID string) (release func(), err error)
}

// releaseScript deletes the lock key only if the caller still owns it, so a
// slow holder whose TTL expired cannot release a successor's lock.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// RedisPractitionerLock implements PractitionerLocker with a short-TTL
// exclusive Redis key per practitioner (SET NX). The TTL must exceed the
// worst-case transaction latency and stays bounded to a few seconds so a
// crashed holder cannot wedge the practitioner's calendar.
type RedisPractitionerLock struct {
	Client *redis.Client
	TTL    time.Duration
	// Wait bounds how long Acquire polls for a busy lock before giving up.
	Wait time.Duration
}

func NewRedisPractitionerLock(client *redis.Client, ttl time.Duration) *RedisPractitionerLock {
	return &RedisPractitionerLock{Client: client, TTL: ttl, Wait: ttl}
}

func lockKey(practitionerID string) string {
	return "booking:lock:" + practitionerID
}

func (l *RedisPractitionerLock) Acquire(ctx context.Context, practitionerID string) (func(), error) {
	key := lockKey(practitionerID)
	token := uuid.New().String()
	deadline := time.Now().Add(l.Wait)

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, &TransientError{Op: "acquire booking lock", Err: err}
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, &TransientError{Op: "acquire booking lock", Err: context.DeadlineExceeded}
		}
		select {
		case <-ctx.Done():
			return nil, &TransientError{Op: "acquire booking lock", Err: ctx.Err()}
		case <-time.After(25 * time.Millisecond):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Client.Eval(releaseCtx, releaseScript, []string{key}, token).Err()
	}
	return release, nil
}

// NoopLocker disables application-level exclusion. Two writers inserting
// disjoint documents do not conflict under snapshot isolation, so a store
// transaction alone cannot stop both from committing overlapping bookings;
// use this only where writers are serialized by other means, as in
// single-writer tests.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, practitionerID string) (func(), error) {
	return func() {}, nil
}
