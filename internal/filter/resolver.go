package filter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ylchen07/azdo-mcp/internal/form"
)

// Status is the resolver's request state.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaitingOptions
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingOptions:
		return "awaiting_options"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a consistent view of the resolver.
type Snapshot struct {
	Selection Selection
	Status    Status
	Failed    bool
	Err       error
	Options   Options
}

// Resolver keeps the filter options of one open dialog in step with its
// selection tuple. Only the response for the current tuple is ever applied.
type Resolver struct {
	source Source
	logger *slog.Logger

	mu      sync.Mutex
	current Selection
	seq     uint64
	status  Status
	options Options
	err     error
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewResolver creates an idle Resolver backed by source.
func NewResolver(source Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Update recomputes the selection from values. A changed selection supersedes
// any request in flight; a complete one starts a new request.
func (r *Resolver) Update(ctx context.Context, values form.Values) Selection {
	sel := SelectionFrom(values)

	r.mu.Lock()
	defer r.mu.Unlock()

	if sel == r.current && (r.status != StatusIdle || !sel.Complete()) {
		return sel
	}

	r.stopLocked()
	r.seq++
	r.current = sel
	r.options = nil
	r.err = nil

	if !sel.Complete() {
		r.status = StatusIdle
		return sel
	}

	r.status = StatusAwaitingOptions
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.fetch(fetchCtx, r.seq, sel, done)

	return sel
}

func (r *Resolver) fetch(ctx context.Context, seq uint64, sel Selection, done chan struct{}) {
	defer close(done)

	opts, err := r.source.FetchFilterOptions(ctx, sel)
	if err != nil && ctx.Err() != nil {
		// Superseded; the newer request owns the state.
		return
	}
	r.apply(seq, sel, opts, err)
}

// apply records a response. It reports whether the response was current.
func (r *Resolver) apply(seq uint64, sel Selection, opts Options, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq || sel != r.current || r.status != StatusAwaitingOptions {
		r.logger.Debug("dropping stale filter options", slog.String("selection", sel.Key()))
		return false
	}

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	if err != nil {
		r.status = StatusError
		r.err = err
		r.logger.Warn("filter options request failed",
			slog.String("selection", sel.Key()),
			slog.Any("error", err),
		)
		return true
	}

	r.status = StatusReady
	r.options = opts
	return true
}

// Snapshot returns the current state.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	opts := make(Options, len(r.options))
	for k, v := range r.options {
		opts[k] = append([]Option(nil), v...)
	}

	return Snapshot{
		Selection: r.current,
		Status:    r.status,
		Failed:    r.status == StatusError,
		Err:       r.err,
		Options:   opts,
	}
}

// OptionsFor returns the choices to offer for field, including the All choice.
func (r *Resolver) OptionsFor(field form.FieldName) []Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	return WithAll(r.options[field], r.status == StatusReady)
}

// Err returns the error of the last failed request, if the resolver is in the
// error state.
func (r *Resolver) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the current request settles or ctx is done.
func (r *Resolver) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any request in flight.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.seq++
	if r.status == StatusAwaitingOptions {
		r.status = StatusIdle
	}
}

func (r *Resolver) stopLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.done = nil
}
