package azdo

import (
	"context"
	"fmt"

	"github.com/ylchen07/azdo-mcp/internal/filter"
)

// FetchFilterOptions asks the service hooks publisher for the possible values
// of every filter that applies to the selection's event type.
func (s *Service) FetchFilterOptions(ctx context.Context, sel filter.Selection) (filter.Options, error) {
	event, ok := filter.LookupEvent(sel.EventType)
	if !ok {
		return nil, fmt.Errorf("azdo: unknown event type %q", sel.EventType)
	}

	query := inputValuesQuery{
		CurrentValues: currentValues(sel),
		InputValues:   make([]inputValue, 0, len(event.Filters)),
	}
	for _, f := range event.Filters {
		query.InputValues = append(query.InputValues, inputValue{InputID: f.InputID})
	}

	path, err := apiPath(sel.Organization, "_apis", "hooks", "publishers", event.Publisher, "inputValuesQuery")
	if err != nil {
		return nil, err
	}

	var res inputValuesQuery
	if err := s.client.Post(ctx, path, query, &res); err != nil {
		return nil, err
	}

	opts := make(filter.Options, len(res.InputValues))
	for _, iv := range res.InputValues {
		f, ok := event.FieldByInput(iv.InputID)
		if !ok {
			continue
		}
		if iv.Error != nil && iv.Error.Message != "" {
			return nil, fmt.Errorf("azdo: input %s: %s", iv.InputID, iv.Error.Message)
		}

		values := make([]filter.Option, 0, len(iv.PossibleValues))
		for _, pv := range iv.PossibleValues {
			display := pv.DisplayValue
			if display == "" {
				display = pv.Value
			}
			values = append(values, filter.Option{DisplayValue: display, Value: pv.Value})
		}
		opts[f.Name] = values
	}

	return opts, nil
}

func currentValues(sel filter.Selection) map[string]string {
	values := map[string]string{"projectId": sel.ProjectID}
	if sel.Repository != "" {
		values["repository"] = sel.Repository
	}
	if sel.ReleasePipelineID != "" {
		values["releaseDefinitionId"] = sel.ReleasePipelineID
	}
	if sel.RunPipeline != "" {
		values["pipelineId"] = sel.RunPipeline
	}
	return values
}
