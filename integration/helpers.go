package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/ylchen07/azdo-mcp/internal/azdo"
	"github.com/ylchen07/azdo-mcp/internal/config"
)

// requireIntegration skips the test if AZDO_MCP_INTEGRATION environment variable is not set.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("AZDO_MCP_INTEGRATION") == "" {
		t.Skip("AZDO_MCP_INTEGRATION not set; skipping integration tests")
	}
}

// resolveEnv returns the first non-empty environment variable value from the provided keys.
func resolveEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

// setupService creates an Azure DevOps service from environment variables and
// returns it with the organization to query.
func setupService(t *testing.T) (*azdo.Service, string) {
	t.Helper()

	org := resolveEnv("AZDO_MCP_AZURE_DEVOPS_ORGANIZATION", "AZDO_ORGANIZATION")
	if org == "" {
		t.Skip("AZDO_MCP_AZURE_DEVOPS_ORGANIZATION not set")
	}

	creds := config.Credentials{
		PAT:        resolveEnv("AZDO_MCP_AZURE_DEVOPS_PAT", "AZDO_PAT"),
		OAuthToken: os.Getenv("AZDO_MCP_AZURE_DEVOPS_OAUTH_TOKEN"),
	}
	if creds.PAT == "" && creds.OAuthToken == "" {
		t.Skip("Azure DevOps credentials not provided")
	}

	baseURL := strings.TrimRight(resolveEnv("AZDO_MCP_AZURE_DEVOPS_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	client, err := azdo.NewClient(baseURL, creds, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	return azdo.NewService(client), org
}

// skipIfEmpty skips the test if the provided slice is empty with a helpful message.
func skipIfEmpty[T any](t *testing.T, items []T, itemType string) {
	t.Helper()
	if len(items) == 0 {
		t.Skipf("no %s found; cannot proceed with test", itemType)
	}
}
