// Package cli provides CLI infrastructure for hris.
package cli

import (
	"strings"

	"github.com/jacksmith/hris/internal/model"
)

// MatchPrefix finds a unique name from a case-insensitive prefix.
// An exact match wins over prefix matches. typ names the kind of item for
// error messages.
func MatchPrefix(typ, prefix string, names []string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(prefix))
	if lower == "" {
		return "", &ValidationError{Field: typ, Message: "name must not be empty"}
	}

	// First check for exact match
	for _, name := range names {
		if strings.ToLower(name) == lower {
			return name, nil
		}
	}

	var matches []string
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Type: typ, ID: prefix}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Type: typ, Query: prefix, Matches: matches}
	}
}

// MatchBranch resolves a branch argument: "all" (nil), a numeric id, or a
// name prefix. Numeric ids are returned even if unknown so the caller can
// report them against the live list.
func MatchBranch(arg string, branches []model.Branch) (*int64, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, "all") {
		return nil, nil
	}
	if id, err := model.ParseBranchID(arg); err == nil {
		return &id, nil
	}

	names := make([]string, 0, len(branches))
	byName := make(map[string]int64, len(branches))
	for _, b := range branches {
		name := b.DisplayName()
		if _, dup := byName[name]; dup {
			continue
		}
		names = append(names, name)
		byName[name] = b.ID
	}

	name, err := MatchPrefix("branch", arg, names)
	if err != nil {
		return nil, err
	}
	id := byName[name]
	return &id, nil
}
