package azdo

import (
	"context"
	"fmt"
)

// CreateWorkItem creates a work item and returns it.
func (s *Service) CreateWorkItem(ctx context.Context, input WorkItemInput) (*WorkItem, error) {
	if input.Organization == "" || input.Project == "" {
		return nil, fmt.Errorf("azdo: organization and project required")
	}
	if input.Type == "" {
		return nil, fmt.Errorf("azdo: work item type required")
	}
	if input.Title == "" {
		return nil, fmt.Errorf("azdo: title required")
	}

	ops := []PatchOperation{
		{Op: "add", Path: "/fields/System.Title", Value: input.Title},
	}
	if input.Description != "" {
		ops = append(ops, PatchOperation{Op: "add", Path: "/fields/System.Description", Value: input.Description})
	}
	if input.AreaPath != "" {
		ops = append(ops, PatchOperation{Op: "add", Path: "/fields/System.AreaPath", Value: input.AreaPath})
	}

	path, err := apiPath(input.Organization, input.Project, "_apis", "wit", "workitems", "$"+input.Type)
	if err != nil {
		return nil, err
	}

	var created WorkItem
	if err := s.client.PostPatch(ctx, path, ops, &created); err != nil {
		return nil, err
	}

	return &created, nil
}
