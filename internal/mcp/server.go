package mcp

import (
	"log/slog"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/dialog"
	"github.com/ylchen07/azdo-mcp/internal/state"

	"github.com/mark3labs/mcp-go/server"
)

// Dependencies bundles the services required for MCP server construction.
type Dependencies struct {
	Service      *azdo.Service
	Dialogs      *dialog.Manager
	Cache        *state.Cache
	BaseURL      string
	Organization string
	Logger       *slog.Logger
}

// NewServer builds an MCP server with registered Azure DevOps and dialog tools.
func NewServer(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	srv := server.NewMCPServer(
		"Azure DevOps MCP",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("Tools for Azure DevOps dialogs: link projects, create work items and create service hook subscriptions."),
		server.WithRecovery(),
	)

	if deps.Cache == nil {
		deps.Cache = state.NewCache()
	}

	if deps.Service != nil {
		NewAzdoTools(srv, deps.Service, deps.Cache, deps.BaseURL, deps.Organization)
	}

	if deps.Dialogs == nil {
		deps.Dialogs = dialog.NewManager(dialog.Config{Cache: deps.Cache, Logger: deps.Logger})
	}
	NewDialogTools(srv, deps.Dialogs)

	return srv
}
