package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacksmith/hris/internal/api"
	"github.com/jacksmith/hris/internal/authz"
)

// NotFoundError indicates a branch or leave request was not found.
type NotFoundError struct {
	Type string // "branch" or "leave request"
	ID   string // the ID or name that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// AmbiguousError indicates a name prefix matched more than one item.
type AmbiguousError struct {
	Type    string
	Query   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s %q matches: %s", e.Type, e.Query, strings.Join(e.Matches, ", "))
}

// ValidationError indicates a validation failure.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output and adds
// a hint for permission and authentication failures.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	msg := "error: " + err.Error()

	var denied *authz.DeniedError
	switch {
	case errors.As(err, &denied):
		msg += "\nhint: set 'role' in .hrisconfig.yaml or HRIS_ROLE if your account has more access"
	case api.IsStatus(err, 401):
		msg += "\nhint: set 'token' in .hrisconfig.yaml or HRIS_TOKEN"
	case api.IsStatus(err, 403):
		msg += "\nhint: the server refused this action for your account"
	}
	return msg
}
