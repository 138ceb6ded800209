package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/config"
	"github.com/ylchen07/azdo-mcp/internal/dialog"
	mcpserver "github.com/ylchen07/azdo-mcp/internal/mcp"
	"github.com/ylchen07/azdo-mcp/internal/state"
	"github.com/ylchen07/azdo-mcp/pkg/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "azdo-mcp",
		Short:         "MCP server for Azure DevOps dialogs",
		Long:          "azdo-mcp serves Azure DevOps project linking, work item and service hook subscription dialogs over MCP stdio.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return run(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to configuration directory or file")

	return cmd
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Default().Error("failed to load configuration", slog.Any("error", err))
		return err
	}

	logger := logging.New(cfg.Server.LogLevel)

	srv, dialogs, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize Azure DevOps client", slog.Any("error", err))
		return err
	}
	defer dialogs.CloseAll()

	if cfg.AzureDevOps.WebhookURL == "" {
		logger.Warn("azure_devops.webhook_url not set; subscription dialogs cannot be submitted")
	}

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("stdio server terminated", slog.Any("error", err))
		return err
	}
	return nil
}

func buildServer(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, *dialog.Manager, error) {
	client, err := azdo.NewClient(cfg.AzureDevOps.BaseURL, cfg.AzureDevOps.Credentials, logging.Component(logger, "azdo"))
	if err != nil {
		return nil, nil, err
	}

	service := azdo.NewService(client)
	cache := state.NewCache()

	dialogs := dialog.NewManager(dialog.Config{
		Backend:    service,
		Cache:      cache,
		WebhookURL: cfg.AzureDevOps.WebhookURL,
		Logger:     logging.Component(logger, "dialog"),
	})

	srv := mcpserver.NewServer(mcpserver.Dependencies{
		Service:      service,
		Dialogs:      dialogs,
		Cache:        cache,
		BaseURL:      cfg.AzureDevOps.BaseURL,
		Organization: cfg.AzureDevOps.Organization,
		Logger:       logger,
	})

	return srv, dialogs, nil
}
