// Package filter resolves the event-specific filter dropdowns of the
// subscription dialog: which filters apply, what options they offer and how
// an upstream change cascades to dependent filters.
package filter

import (
	"context"
	"fmt"

	"github.com/ylchen07/azdo-mcp/internal/form"
)

// AllValue is the sentinel option value meaning "no constraint". It is never
// stored; selecting it clears the field.
const (
	AllValue = "all"
	AllLabel = "All"
)

// Option is a single choice returned by the options source.
type Option struct {
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

// Options maps filter fields to their choices.
type Options map[form.FieldName][]Option

// Selection is the tuple that determines which options request is issued.
// It is comparable and used directly as a cache key.
type Selection struct {
	Organization      string `json:"organization"`
	ProjectID         string `json:"projectId"`
	EventType         string `json:"eventType"`
	Repository        string `json:"repository,omitempty"`
	ReleasePipelineID string `json:"releasePipelineId,omitempty"`
	RunPipeline       string `json:"runPipeline,omitempty"`
}

// SelectionFrom derives the selection tuple from dialog values.
func SelectionFrom(values form.Values) Selection {
	return Selection{
		Organization:      values[form.Organization],
		ProjectID:         values[form.Project],
		EventType:         values[form.EventType],
		Repository:        values[form.Repository],
		ReleasePipelineID: values[form.ReleasePipelineID],
		RunPipeline:       values[form.RunPipeline],
	}
}

// Complete reports whether the selection identifies an options request.
func (s Selection) Complete() bool {
	return s.Organization != "" && s.ProjectID != "" && s.EventType != ""
}

// Key renders the selection as a single string. Each field is quoted so
// distinct selections never share a key.
func (s Selection) Key() string {
	return fmt.Sprintf("%q", []string{
		s.Organization, s.ProjectID, s.EventType,
		s.Repository, s.ReleasePipelineID, s.RunPipeline,
	})
}

// Source fetches filter options for a selection.
type Source interface {
	FetchFilterOptions(ctx context.Context, sel Selection) (Options, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, sel Selection) (Options, error)

// FetchFilterOptions implements Source.
func (f SourceFunc) FetchFilterOptions(ctx context.Context, sel Selection) (Options, error) {
	return f(ctx, sel)
}

// FieldState reports whether a filter dropdown is shown and editable.
type FieldState struct {
	Name    form.FieldName `json:"name"`
	Display form.FieldName `json:"display,omitempty"`
	Enabled bool           `json:"enabled"`
}

// Applicable returns the filters that apply to eventType within serviceType,
// in display order, with their enabled flag for the current values.
func Applicable(serviceType, eventType string, values form.Values) []FieldState {
	event, ok := LookupEvent(eventType)
	if !ok || event.Service != serviceType {
		return nil
	}

	states := make([]FieldState, 0, len(event.Filters))
	for _, f := range event.Filters {
		states = append(states, FieldState{
			Name:    f.Name,
			Display: f.Display,
			Enabled: enabled(f.Name, values),
		})
	}
	return states
}

func enabled(field form.FieldName, values form.Values) bool {
	switch field {
	case form.TargetBranch:
		return values[form.Repository] != ""
	case form.StageNameID:
		return values[form.ReleasePipelineID] != ""
	case form.RunStageID:
		return values[form.RunPipeline] != ""
	case form.RunStageResultID:
		return resultKnown(values[form.RunStageStateID])
	case form.RunResultID:
		return resultKnown(values[form.RunStateID])
	}
	return true
}

func resultKnown(state string) bool {
	return state == "" || state == StateCompleted
}

// scoped lists the filters whose choices depend on an upstream filter.
var scoped = map[form.FieldName][]form.FieldName{
	form.Repository:        {form.TargetBranch},
	form.ReleasePipelineID: {form.StageNameID, form.StageName},
	form.RunPipeline:       {form.RunStageID, form.RunStage},
}

// results lists the result filters that only make sense once a state completed.
var results = map[form.FieldName][]form.FieldName{
	form.RunStageStateID: {form.RunStageResultID, form.RunStageResultIDName},
	form.RunStateID:      {form.RunResultID, form.RunResultIDName},
}

// SetFilter returns values with field set to value and, when displayField is
// non-empty, displayField set to display. Dependent filters are cleared in the
// same update. The All sentinel clears both the field and its display field.
func SetFilter(values form.Values, field form.FieldName, value string, displayField form.FieldName, display string) form.Values {
	next := values.Clone()
	all := value == AllValue

	stored := value
	if all {
		stored = ""
		display = ""
	}
	next[field] = stored
	if displayField != "" {
		next[displayField] = display
	}

	// Scope changes compare the stored value for every upstream filter.
	if deps, ok := scoped[field]; ok && (all || stored != values[field]) {
		for _, dep := range deps {
			next[dep] = ""
		}
	}

	if deps, ok := results[field]; ok && !all && value != StateCompleted {
		for _, dep := range deps {
			next[dep] = ""
		}
	}

	return next
}

// WithAll prefixes opts with the All choice. Until the options are ready only
// the All choice is offered.
func WithAll(opts []Option, ready bool) []Option {
	all := Option{DisplayValue: AllLabel, Value: AllValue}
	if !ready {
		return []Option{all}
	}
	return append([]Option{all}, opts...)
}
