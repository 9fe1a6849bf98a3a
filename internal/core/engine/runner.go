package engine

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/cargofree/cargo-free/internal/core"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 4

// ErrNoNames is returned when a batch is requested with zero names.
var ErrNoNames = errors.New("no crate names supplied")

// Resolver describes a single-name lookup.
type Resolver interface {
	Lookup(ctx context.Context, name string, timeout time.Duration) core.LookupResult
}

// Runner resolves a batch of names independently and collects the results
// in input order.
type Runner struct {
	Resolver    Resolver
	Timeout     time.Duration
	Concurrency int
	// OnResult is called once per completed lookup. Calls are serialized.
	OnResult func(core.LookupResult)
}

// ResolveAll looks up every name. A failure for one name never prevents or
// cancels the lookups of the others; it is recorded in that name's slot.
func (r *Runner) ResolveAll(ctx context.Context, names []string) (*core.BatchResult, error) {
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	if r == nil || r.Resolver == nil {
		return nil, errors.New("runner is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	batch := &core.BatchResult{Results: make([]core.LookupResult, len(names))}
	for _, name := range names {
		if width := utf8.RuneCountInString(name); width > batch.Width {
			batch.Width = width
		}
	}

	var (
		g        errgroup.Group
		notifyMu sync.Mutex
	)
	g.SetLimit(r.concurrency(len(names)))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			result := r.Resolver.Lookup(ctx, name, r.Timeout)
			result.Name = name
			batch.Results[i] = result

			if r.OnResult != nil {
				notifyMu.Lock()
				r.OnResult(result)
				notifyMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return batch, nil
}

func (r *Runner) concurrency(total int) int {
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if limit > total {
		limit = total
	}
	return limit
}
