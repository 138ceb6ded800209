package azdo

import (
	"context"
	"fmt"
	"strconv"
)

// ListProjects returns the projects of an organization.
func (s *Service) ListProjects(ctx context.Context, org string, top int) ([]Project, error) {
	if org == "" {
		return nil, fmt.Errorf("azdo: organization required")
	}

	query := map[string]string{}
	if top > 0 {
		query["$top"] = strconv.Itoa(top)
	}

	path, err := apiPath(org, "_apis", "projects")
	if err != nil {
		return nil, err
	}

	var res listResponse[Project]
	if err := s.client.Get(ctx, path, query, &res); err != nil {
		return nil, err
	}

	return res.Value, nil
}

// GetProject looks up a project by name or ID.
func (s *Service) GetProject(ctx context.Context, org, project string) (*Project, error) {
	if org == "" || project == "" {
		return nil, fmt.Errorf("azdo: organization and project required")
	}

	path, err := apiPath(org, "_apis", "projects", project)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := s.client.Get(ctx, path, nil, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
