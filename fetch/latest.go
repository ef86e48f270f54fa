package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer call for the same key started
// before this one finished. Its result was dropped.
var ErrSuperseded = errors.New("superseded by a newer request")

// Latest runs at most one useful fetch per key. Starting a fetch cancels the
// previous in-flight fetch for that key, and a result is only applied while
// its fetch is still the newest one. Late responses never overwrite newer state.
type Latest[T any] struct {
	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	cancel context.CancelFunc
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{inflight: make(map[string]*call)}
}

// Do runs fn for key and, if it is still the newest call for key when fn
// returns, runs apply with the result while holding the Latest lock.
// A superseded call returns ErrSuperseded and apply is not called.
func (l *Latest[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error), apply func(T)) (T, error) {
	var zero T

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if prev, ok := l.inflight[key]; ok {
		prev.cancel()
	}
	me := &call{cancel: cancel}
	l.inflight[key] = me
	l.mu.Unlock()

	v, err := fn(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.inflight[key] == me
	if current {
		delete(l.inflight, key)
	}

	if !current {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	if apply != nil {
		apply(v)
	}
	return v, nil
}

// Cancel aborts the in-flight fetch for key, if any. Its result will not be applied.
func (l *Latest[T]) Cancel(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.inflight[key]; ok {
		c.cancel()
		delete(l.inflight, key)
	}
}

// InFlight reports how many keys currently have a running fetch
func (l *Latest[T]) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inflight)
}
