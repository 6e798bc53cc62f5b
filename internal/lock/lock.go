// Package lock serialises vote acceptance per voter identity.
//
// Local is enough for a single API instance. Redis holds the same keys as
// expiring leases so several instances can share them.
package lock

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// Locker acquires every key or none
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

var (
	_ Locker = (*Local)(nil)
	_ Locker = (*Redis)(nil)
)

// normalize sorts and dedupes keys so concurrent callers lock in the same order
func normalize(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}

func waitTimeout(key string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrVoteInProgress, key, err)
}

// Local is an in-process keyed lock
type Local struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewLocal returns a keyed lock that gives up after wait (0 waits for ctx only)
func NewLocal(wait time.Duration) *Local {
	return &Local{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

func (l *Local) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	keys = normalize(keys)
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.acquireOne(ctx, key); err != nil {
			l.release(acquired)
			return nil, waitTimeout(key, err)
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(acquired) }) }, nil
}

func (l *Local) acquireOne(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Local) release(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		if ch, ok := l.held[key]; ok {
			delete(l.held, key)
			close(ch)
		}
	}
}

// Held reports how many keys are currently locked
func (l *Local) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
