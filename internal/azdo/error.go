package azdo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error represents an Azure DevOps REST error response.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	TypeKey    string `json:"typeKey"`
	ErrorCode  int    `json:"errorCode"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Message != "" {
		return fmt.Sprintf("azdo: %d %s", e.StatusCode, e.Message)
	}

	if e.TypeKey != "" {
		return fmt.Sprintf("azdo: %d %s", e.StatusCode, e.TypeKey)
	}

	return fmt.Sprintf("azdo: %d", e.StatusCode)
}

// NotFound reports whether the error is a 404.
func (e *Error) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

func parseError(res *http.Response) error {
	data, _ := io.ReadAll(res.Body)
	errRes := &Error{StatusCode: res.StatusCode}
	if len(data) > 0 {
		_ = json.Unmarshal(data, errRes)
	}

	if errRes.Message == "" && errRes.TypeKey == "" {
		errRes.Message = string(data)
	}

	return errRes
}
