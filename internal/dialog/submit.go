package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/filter"
	"github.com/ylchen07/azdo-mcp/internal/form"
	"github.com/ylchen07/azdo-mcp/internal/state"
)

// Result is the outcome of a submit. When Valid is false nothing was sent and
// Errors holds the failing fields.
type Result struct {
	Valid        bool               `json:"valid"`
	Errors       form.Errors        `json:"errors,omitempty"`
	Project      *azdo.Project      `json:"project,omitempty"`
	WorkItem     *azdo.WorkItem     `json:"workItem,omitempty"`
	Subscription *azdo.Subscription `json:"subscription,omitempty"`
}

// Submit validates the dialog and, when valid, performs its action. A
// successful submit closes the dialog. Only one submit of a dialog runs at a
// time; others fail with ErrSubmitInProgress.
func (m *Manager) Submit(ctx context.Context, id string) (Result, error) {
	s, err := m.session(id)
	if err != nil {
		return Result{}, err
	}
	if m.backend == nil {
		return Result{}, fmt.Errorf("dialog: no backend configured")
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	case s.submitting:
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrSubmitInProgress, id)
	}
	if ok, errs := s.validateLocked(); !ok {
		s.mu.Unlock()
		return Result{Errors: errs}, nil
	}
	values := s.state.Values.Clone()
	s.submitting = true
	s.mu.Unlock()

	// Cleared after Close so a later caller finds the dialog closed.
	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	var res Result
	switch s.kind {
	case KindLink:
		res, err = m.submitLink(ctx, values)
	case KindWorkItem:
		res, err = m.submitWorkItem(ctx, values)
	case KindSubscription:
		res, err = m.submitSubscription(ctx, values)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidKind, s.kind)
	}
	if err != nil {
		m.logger.Warn("dialog submit failed",
			slog.String("dialog", id),
			slog.String("kind", string(s.kind)),
			slog.Any("error", err),
		)
		return Result{}, err
	}

	if len(res.Errors) > 0 {
		s.recordErrors(res.Errors)
		return res, nil
	}

	res.Valid = true
	if err := m.Close(id); err != nil {
		m.logger.Debug("dialog already closed", slog.String("dialog", id))
	}
	return res, nil
}

func (m *Manager) submitLink(ctx context.Context, values form.Values) (Result, error) {
	org := values[form.Organization]
	project, err := m.backend.GetProject(ctx, org, values[form.Project])
	var apiErr *azdo.Error
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return Result{Errors: form.Errors{
			form.Project: fmt.Sprintf("Project %s was not found in %s", values[form.Project], org),
		}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("dialog: link project: %w", err)
	}

	m.cache.AddLinkedProject(state.LinkedProject{Organization: org, Project: *project})
	return Result{Project: project}, nil
}

func (m *Manager) submitWorkItem(ctx context.Context, values form.Values) (Result, error) {
	created, err := m.backend.CreateWorkItem(ctx, azdo.WorkItemInput{
		Organization: values[form.Organization],
		Project:      values[form.Project],
		Type:         values[form.WorkItemType],
		Title:        values[form.Title],
		Description:  values[form.Description],
		AreaPath:     values[form.AreaPath],
	})
	if err != nil {
		return Result{}, fmt.Errorf("dialog: create work item: %w", err)
	}
	return Result{WorkItem: created}, nil
}

func (m *Manager) submitSubscription(ctx context.Context, values form.Values) (Result, error) {
	event, ok := filter.LookupEvent(values[form.EventType])
	if !ok {
		return Result{}, fmt.Errorf("dialog: unknown event type %q", values[form.EventType])
	}

	hook, err := channelWebhook(m.webhookURL, values[form.ChannelID])
	if err != nil {
		return Result{}, err
	}

	created, err := m.backend.CreateSubscription(ctx, azdo.SubscriptionInput{
		Organization: values[form.Organization],
		ProjectID:    values[form.Project],
		EventType:    event.Type,
		Publisher:    event.Publisher,
		Inputs:       event.Inputs(values),
		WebhookURL:   hook,
	})
	if err != nil {
		return Result{}, fmt.Errorf("dialog: create subscription: %w", err)
	}
	return Result{Subscription: created}, nil
}

// channelWebhook adds the channel to the configured webhook URL so the host
// can route incoming events.
func channelWebhook(base, channelID string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("dialog: webhook url not configured")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("dialog: parse webhook url: %w", err)
	}
	q := u.Query()
	q.Set("channelID", channelID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// recordErrors puts messages found while submitting onto the dialog state.
func (s *session) recordErrors(errs form.Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, msg := range errs {
		s.state.Errors[name] = msg
	}
}
