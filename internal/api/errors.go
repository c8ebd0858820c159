package api

import (
	"fmt"
	"strings"
)

const maxErrorBody = 512

// StatusError reports a non-2xx response from an endpoint whose status is checked.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func newStatusError(method, path string, code int, body []byte) *StatusError {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return &StatusError{Method: method, Path: path, Code: code, Body: text}
}
