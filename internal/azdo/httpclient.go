package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const jsonPatchContentType = "application/json-patch+json"

// Get issues a GET request and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, result any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.Do(req, result)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	req, err := c.NewRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return c.Do(req, result)
}

// PatchOperation is a single JSON Patch operation.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// PostPatch sends a JSON Patch document with POST, as the work item API expects.
func (c *Client) PostPatch(ctx context.Context, path string, ops []PatchOperation, result any) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("azdo: encode patch: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, path, nil, RawBody{
		Reader:      bytes.NewReader(data),
		ContentType: jsonPatchContentType,
	})
	if err != nil {
		return err
	}
	return c.Do(req, result)
}
