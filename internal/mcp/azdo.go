package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/state"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AzdoTools wires Azure DevOps lookups into MCP tools.
type AzdoTools struct {
	service      *azdo.Service
	cache        *state.Cache
	baseURL      string
	organization string
}

// NewAzdoTools registers Azure DevOps tools on the server.
func NewAzdoTools(s *server.MCPServer, service *azdo.Service, cache *state.Cache, baseURL, organization string) *AzdoTools {
	at := &AzdoTools{
		service:      service,
		cache:        cache,
		baseURL:      strings.TrimRight(baseURL, "/"),
		organization: organization,
	}

	s.AddTool(
		mcp.NewTool(
			"azdo.list_projects",
			mcp.WithDescription("List Azure DevOps projects of an organization"),
			mcp.WithInputSchema[AzdoListProjectsArgs](),
			mcp.WithOutputSchema[AzdoProjectListResult](),
		),
		mcp.NewTypedToolHandler(at.handleListProjects),
	)

	s.AddTool(
		mcp.NewTool(
			"azdo.linked_projects",
			mcp.WithDescription("List the projects linked in this session, most recent last"),
			mcp.WithInputSchema[AzdoLinkedProjectsArgs](),
			mcp.WithOutputSchema[AzdoProjectListResult](),
		),
		mcp.NewTypedToolHandler(at.handleLinkedProjects),
	)

	return at
}

// AzdoListProjectsArgs parameters for listing projects.
type AzdoListProjectsArgs struct {
	Organization string `json:"organization,omitempty" jsonschema_description:"Organization name, defaults to the configured organization"`
	Top          int    `json:"top,omitempty" jsonschema_description:"Maximum number of projects to fetch" jsonschema:"minimum=1,maximum=500"`
}

// AzdoLinkedProjectsArgs takes no parameters.
type AzdoLinkedProjectsArgs struct{}

// AzdoProject represents project metadata returned to clients.
type AzdoProject struct {
	Organization string `json:"organization"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url"`
}

// AzdoProjectListResult wraps the project list response.
type AzdoProjectListResult struct {
	Projects []AzdoProject `json:"projects"`
}

// OperationStatus represents an acknowledgement response for state-changing operations.
type OperationStatus struct {
	Message string `json:"message"`
}

func (a *AzdoTools) handleListProjects(ctx context.Context, _ mcp.CallToolRequest, args AzdoListProjectsArgs) (*mcp.CallToolResult, error) {
	org := strings.TrimSpace(args.Organization)
	if org == "" {
		org = a.organization
	}
	if org == "" {
		return mcp.NewToolResultError("organization must not be empty"), nil
	}

	top := args.Top
	if top == 0 {
		top = 100
	}

	projects, err := a.service.ListProjects(ctx, org, top)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("azure devops list projects failed", err), nil
	}

	result := AzdoProjectListResult{Projects: make([]AzdoProject, 0, len(projects))}
	for _, p := range projects {
		result.Projects = append(result.Projects, a.project(org, p))
	}

	fallback := fmt.Sprintf("Found %d projects in %s", len(result.Projects), org)
	return mcp.NewToolResultStructured(result, fallback), nil
}

func (a *AzdoTools) handleLinkedProjects(_ context.Context, _ mcp.CallToolRequest, _ AzdoLinkedProjectsArgs) (*mcp.CallToolResult, error) {
	linked := a.cache.LinkedProjects()

	result := AzdoProjectListResult{Projects: make([]AzdoProject, 0, len(linked))}
	for _, lp := range linked {
		result.Projects = append(result.Projects, a.project(lp.Organization, lp.Project))
	}

	fallback := fmt.Sprintf("%d linked projects", len(result.Projects))
	return mcp.NewToolResultStructured(result, fallback), nil
}

func (a *AzdoTools) project(org string, p azdo.Project) AzdoProject {
	return AzdoProject{
		Organization: org,
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		URL:          fmt.Sprintf("%s/%s/%s", a.baseURL, url.PathEscape(org), url.PathEscape(p.Name)),
	}
}
