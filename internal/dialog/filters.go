package dialog

import (
	"context"
	"fmt"

	"github.com/ylchen07/azdo-mcp/internal/filter"
	"github.com/ylchen07/azdo-mcp/internal/form"
)

// FilterField is one filter dropdown of a subscription dialog.
type FilterField struct {
	filter.FieldState
	Value        string          `json:"value"`
	DisplayValue string          `json:"displayValue,omitempty"`
	Options      []filter.Option `json:"options"`
}

// Filters describes the filter section of a subscription dialog.
type Filters struct {
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	EventTypes []form.Option `json:"eventTypes"`
	Fields     []FilterField `json:"fields"`
}

// Filters returns the filters that apply to the dialog's event type and the
// options each one currently offers.
func (m *Manager) Filters(id string) (Filters, error) {
	s, err := m.subscription(id)
	if err != nil {
		return Filters{}, err
	}

	// Values and resolver are read together so the options match the
	// selection the values describe.
	s.mu.Lock()
	values := s.state.Values.Clone()
	snap := s.resolver.Snapshot()
	s.mu.Unlock()

	ready := snap.Status == filter.StatusReady
	out := Filters{
		Status:     snap.Status.String(),
		EventTypes: filter.EventTypes(values[form.ServiceType]),
	}
	if snap.Err != nil {
		out.Error = snap.Err.Error()
	}

	for _, fs := range filter.Applicable(values[form.ServiceType], values[form.EventType], values) {
		field := FilterField{
			FieldState: fs,
			Value:      values[fs.Name],
			Options:    filter.WithAll(snap.Options[fs.Name], ready),
		}
		if fs.Display != "" {
			field.DisplayValue = values[fs.Display]
		}
		out.Fields = append(out.Fields, field)
	}

	return out, nil
}

// SetFilter sets a filter of a subscription dialog. The All value clears it.
// Filters that depend on the changed one are cleared in the same update.
func (m *Manager) SetFilter(ctx context.Context, id string, field form.FieldName, value, display string) (View, error) {
	s, err := m.subscription(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.state.Values
	var target filter.FieldState
	found := false
	for _, fs := range filter.Applicable(values[form.ServiceType], values[form.EventType], values) {
		if fs.Name == field {
			target, found = fs, true
			break
		}
	}
	if !found {
		return View{}, fmt.Errorf("%w: %q is not a filter of this event", form.ErrUnknownField, field)
	}
	if !target.Enabled {
		return View{}, fmt.Errorf("%w: %q", ErrFilterDisabled, field)
	}

	s.state.Values = filter.SetFilter(values, target.Name, value, target.Display, display)
	s.refresh(ctx)

	return s.view(), nil
}

// Wait blocks until the dialog's filter request settles or ctx is done.
func (m *Manager) Wait(ctx context.Context, id string) error {
	s, err := m.subscription(id)
	if err != nil {
		return err
	}
	return s.resolver.Wait(ctx)
}

func (m *Manager) subscription(id string) (*session, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	if s.kind != KindSubscription || s.resolver == nil {
		return nil, fmt.Errorf("%w: %s dialogs have no filters", ErrInvalidKind, s.kind)
	}
	return s, nil
}
