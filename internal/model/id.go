package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when an ID cannot be parsed.
var ErrInvalidID = errors.New("invalid ID format")

// ParseBranchID parses the decimal form of a branch id.
// Surrounding whitespace is ignored; anything else that is not a base-10
// integer returns ErrInvalidID.
func ParseBranchID(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty branch ID", ErrInvalidID)
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid branch ID", ErrInvalidID, s)
	}
	return id, nil
}

// FormatBranchID returns the decimal string form of a branch id.
// This is the exact value written to local state.
func FormatBranchID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// FindBranch returns the branch with the given id, or nil.
func FindBranch(branches []Branch, id int64) *Branch {
	for i := range branches {
		if branches[i].ID == id {
			return &branches[i]
		}
	}
	return nil
}

// ContainsBranch reports whether id is present in branches.
func ContainsBranch(branches []Branch, id int64) bool {
	return FindBranch(branches, id) != nil
}
