//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/ylchen07/azdo-mcp/internal/filter"
	"github.com/ylchen07/azdo-mcp/internal/form"
)

func TestListProjects(t *testing.T) {
	requireIntegration(t)

	svc, org := setupService(t)

	projects, err := svc.ListProjects(context.Background(), org, 10)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}

	if len(projects) == 0 {
		t.Logf("no projects returned for organization %s", org)
		return
	}

	t.Logf("Found %d projects in %s", len(projects), org)
	for i, project := range projects {
		t.Logf("  [%d] %s (%s)", i+1, project.Name, project.ID)
	}
}

func TestGetProject(t *testing.T) {
	requireIntegration(t)

	svc, org := setupService(t)

	projects, err := svc.ListProjects(context.Background(), org, 1)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	skipIfEmpty(t, projects, "projects")

	project, err := svc.GetProject(context.Background(), org, projects[0].Name)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if project.ID != projects[0].ID {
		t.Fatalf("expected project %s, got %s", projects[0].ID, project.ID)
	}
}

func TestFilterOptions(t *testing.T) {
	requireIntegration(t)

	svc, org := setupService(t)

	projects, err := svc.ListProjects(context.Background(), org, 1)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	skipIfEmpty(t, projects, "projects")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, eventType := range []string{filter.EventCodePushed, filter.EventBuildCompleted, filter.EventRunStateChanged} {
		opts, err := svc.FetchFilterOptions(ctx, filter.Selection{
			Organization: org,
			ProjectID:    projects[0].ID,
			EventType:    eventType,
		})
		if err != nil {
			t.Fatalf("FetchFilterOptions(%s) failed: %v", eventType, err)
		}
		t.Logf("%s: %d repositories, %d pipelines", eventType, len(opts[form.Repository]), len(opts[form.RunPipeline]))
	}
}
