package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Error is a non-2xx reply from the API.
type Error struct {
	StatusCode int
	Code       string // machine-readable code from the error envelope, if any
	Message    string // human-readable message from the error envelope, if any
	RequestID  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// errorEnvelope is the JSON body the API sends with failures.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// newError builds an *Error, reading the envelope from body when it is JSON.
func newError(status int, requestID string, body []byte) *Error {
	e := &Error{StatusCode: status, RequestID: requestID}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		e.Code = env.Code
		e.Message = env.Message
		if e.Message == "" {
			e.Message = env.Error
		}
		return e
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		e.Message = text
	}
	return e
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}
