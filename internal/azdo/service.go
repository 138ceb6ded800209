package azdo

import (
	"fmt"
	"net/url"
	"strings"
)

// Service exposes the Azure DevOps endpoints used by the dialogs.
type Service struct {
	client *Client
}

// NewService creates a Service using the provided client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// apiPath builds an escaped request path with one segment per part. Parts
// that are empty or would change the path structure are rejected.
func apiPath(parts ...string) (string, error) {
	builder := strings.Builder{}

	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("azdo: invalid path segment %q", part)
		}
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(part))
	}

	return builder.String(), nil
}
