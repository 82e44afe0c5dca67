package routing

import (
	"context"
	"fmt"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"
)

// Locker serializes assignment decisions per moderator. Lock holds every id
// in the set until unlock is called, or fails once ctx is done.
type Locker interface {
	Lock(ctx context.Context, moderatorIDs []int64) (unlock func(), err error)
}

// KeyedLocker is an in-process Locker. It is enough when a single process
// makes all assignment decisions.
type KeyedLocker struct {
	locks *xsync.Map[int64, chan struct{}]
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		locks: xsync.NewMap[int64, chan struct{}](),
	}
}

func (l *KeyedLocker) Lock(ctx context.Context, moderatorIDs []int64) (func(), error) {
	ids := lockOrder(moderatorIDs)
	held := make([]chan struct{}, 0, len(ids))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ids {
		sem, _ := l.locks.LoadOrStore(id, make(chan struct{}, 1))
		select {
		case sem <- struct{}{}:
			held = append(held, sem)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("waiting for moderator %d: %w", id, ctx.Err())
		}
	}

	return release, nil
}

// lockOrder sorts and dedupes ids. Every locker acquires in ascending id
// order so overlapping pools cannot deadlock.
func lockOrder(moderatorIDs []int64) []int64 {
	ids := slices.Clone(moderatorIDs)
	slices.Sort(ids)
	return slices.Compact(ids)
}
