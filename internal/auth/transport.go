package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ylchen07/azdo-mcp/internal/config"
)

// Transport injects Azure DevOps authentication headers into outbound requests.
type Transport struct {
	base       http.RoundTripper
	authHeader string
	once       sync.Once
	initErr    error
	creds      config.Credentials
}

// NewTransport creates a new auth transport wrapping the provided RoundTripper.
func NewTransport(base http.RoundTripper, creds config.Credentials) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, creds: creds}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.initialize(); err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.authHeader)
	clone.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(clone)
}

func (t *Transport) initialize() error {
	t.once.Do(func() {
		switch {
		case strings.TrimSpace(t.creds.OAuthToken) != "":
			t.authHeader = fmt.Sprintf("Bearer %s", t.creds.OAuthToken)
		case strings.TrimSpace(t.creds.PAT) != "":
			// PATs use basic auth with an empty user name.
			token := base64.StdEncoding.EncodeToString([]byte(":" + t.creds.PAT))
			t.authHeader = fmt.Sprintf("Basic %s", token)
		default:
			t.initErr = fmt.Errorf("auth: insufficient credentials")
		}
	})
	return t.initErr
}
