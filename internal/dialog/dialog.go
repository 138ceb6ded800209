// Package dialog keeps the state of the dialogs a host has open: link a
// project, create a work item and create a service hook subscription.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/filter"
	"github.com/ylchen07/azdo-mcp/internal/form"
	"github.com/ylchen07/azdo-mcp/internal/state"
)

var (
	// ErrSessionNotFound is returned for an unknown or closed dialog ID.
	ErrSessionNotFound = errors.New("dialog: session not found")
	// ErrInvalidKind is returned for a dialog kind that does not exist or
	// does not support the operation.
	ErrInvalidKind = errors.New("dialog: invalid kind")
	// ErrSubmitInProgress is returned while another submit of the same
	// dialog is running.
	ErrSubmitInProgress = errors.New("dialog: submit in progress")
	// ErrFilterDisabled is returned when a filter is set before the filter it
	// depends on.
	ErrFilterDisabled = errors.New("dialog: filter disabled")
)

// Kind identifies a dialog type.
type Kind string

const (
	KindLink         Kind = "link"
	KindWorkItem     Kind = "workitem"
	KindSubscription Kind = "subscription"
)

// ParseKind validates a dialog kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLink, KindWorkItem, KindSubscription:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Fields returns the field set of a dialog kind.
func (k Kind) Fields() form.FieldSet {
	switch k {
	case KindLink:
		return form.LinkFields
	case KindWorkItem:
		return form.WorkItemFields
	case KindSubscription:
		return form.SubscriptionFields
	}
	return nil
}

// Backend is the Azure DevOps surface the dialogs submit to.
type Backend interface {
	filter.Source
	GetProject(ctx context.Context, org, project string) (*azdo.Project, error)
	CreateWorkItem(ctx context.Context, input azdo.WorkItemInput) (*azdo.WorkItem, error)
	CreateSubscription(ctx context.Context, input azdo.SubscriptionInput) (*azdo.Subscription, error)
}

// Config configures a Manager.
type Config struct {
	Backend    Backend
	Cache      *state.Cache
	WebhookURL string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Manager owns the open dialogs.
type Manager struct {
	backend    Backend
	source     filter.Source
	cache      *state.Cache
	webhookURL string
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id       string
	kind     Kind
	ctrl     *form.Controller
	resolver *filter.Resolver

	mu         sync.Mutex
	state      form.State
	submitting bool
	closed     bool
}

// View is a copy of a dialog's state.
type View struct {
	ID     string        `json:"id"`
	Kind   Kind          `json:"kind"`
	Fields form.FieldSet `json:"-"`
	State  form.State    `json:"state"`
}

// NewManager creates a Manager.
func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = state.NewCache()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := &Manager{
		backend:    cfg.Backend,
		cache:      cfg.Cache,
		webhookURL: cfg.WebhookURL,
		logger:     cfg.Logger,
		now:        cfg.Now,
		sessions:   make(map[string]*session),
	}
	if cfg.Backend != nil {
		m.source = filter.Cached(cfg.Backend, cfg.Cache)
	}
	return m
}

// Open starts a dialog of kind. Work item and subscription dialogs default
// their organization and project to the last linked project.
func (m *Manager) Open(ctx context.Context, kind Kind, seed form.Values) (View, error) {
	fields := kind.Fields()
	if fields == nil {
		return View{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	ctrl := form.NewController(fields)
	ctrl.Now = m.now

	s := &session{
		id:    uuid.NewString(),
		kind:  kind,
		ctrl:  ctrl,
		state: ctrl.Initialize(m.seedFor(kind, seed)),
	}
	if kind == KindSubscription && m.source != nil {
		s.resolver = filter.NewResolver(m.source, m.logger.With(slog.String("dialog", s.id)))
		s.resolver.Update(ctx, s.state.Values)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info("dialog opened", slog.String("dialog", s.id), slog.String("kind", string(kind)))

	return s.view(), nil
}

func (m *Manager) seedFor(kind Kind, seed form.Values) form.Values {
	out := seed.Clone()
	if kind == KindLink {
		return out
	}

	last, ok := m.cache.LastLinked()
	if !ok {
		return out
	}
	if out[form.Organization] == "" && out[form.Project] == "" {
		out[form.Organization] = last.Organization
		out[form.Project] = last.Project.ID
	}
	return out
}

// Get returns the current state of a dialog.
func (m *Manager) Get(id string) (View, error) {
	s, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// SetField changes one field. Category fields reset the rest of the dialog.
func (m *Manager) SetField(ctx context.Context, id string, field form.FieldName, value string) (View, error) {
	s, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.ctrl.SetField(s.state, field, value)
	if err != nil {
		return View{}, err
	}
	s.state = next
	s.refresh(ctx)

	return s.view(), nil
}

// Validate checks the dialog and records the messages on its state.
func (m *Manager) Validate(id string) (bool, View, error) {
	s, err := m.session(id)
	if err != nil {
		return false, View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, _ := s.validateLocked()
	return ok, s.view(), nil
}

// Reset returns the dialog to its defaults.
func (m *Manager) Reset(ctx context.Context, id string) (View, error) {
	s, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.ctrl.Reset()
	s.refresh(ctx)

	return s.view(), nil
}

// Close discards a dialog and cancels any filter request it has in flight.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.close()
	m.logger.Info("dialog closed", slog.String("dialog", id))
	return nil
}

// CloseAll discards every open dialog.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Len returns the number of open dialogs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) session(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

func (s *session) view() View {
	return View{ID: s.id, Kind: s.kind, Fields: s.ctrl.Fields, State: s.state.Clone()}
}

func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.resolver != nil {
		s.resolver.Close()
	}
}

// refresh moves the filter resolver to the current selection.
func (s *session) refresh(ctx context.Context) {
	if s.resolver != nil {
		s.resolver.Update(ctx, s.state.Values)
	}
}

func (s *session) validateLocked() (bool, form.Errors) {
	ok, errs := s.ctrl.Validate(s.state.Values)
	for name := range s.state.Errors {
		s.state.Errors[name] = errs[name]
	}
	return ok, errs
}
