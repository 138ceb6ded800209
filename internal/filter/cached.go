package filter

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Store caches options responses keyed by the full selection.
type Store interface {
	FilterOptions(sel Selection) (Options, bool)
	SetFilterOptions(sel Selection, opts Options)
}

type cachedSource struct {
	source Source
	store  Store
	group  singleflight.Group
}

// Cached wraps source with store. Concurrent requests for the same selection
// share a single upstream call.
func Cached(source Source, store Store) Source {
	return &cachedSource{source: source, store: store}
}

func (c *cachedSource) FetchFilterOptions(ctx context.Context, sel Selection) (Options, error) {
	if opts, ok := c.store.FilterOptions(sel); ok {
		return opts, nil
	}

	// The shared call outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(sel.Key(), func() (any, error) {
		opts, err := c.source.FetchFilterOptions(shared, sel)
		if err != nil {
			return nil, err
		}
		c.store.SetFilterOptions(sel, opts)
		return opts, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Options), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
