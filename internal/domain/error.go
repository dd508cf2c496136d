package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTokenListInvalid means a token list document failed schema validation.
// Use errors.Is against this sentinel; the concrete error is *ValidationError.
var ErrTokenListInvalid = errors.New("token list failed validation")

// Issue is a single structural problem found while validating a token list
// document: the field path it concerns and the reason it was rejected.
type Issue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Reason
}

// ValidationError carries the full set of structural issues of a rejected
// token list document. Validation is exhaustive, so Issues holds every
// problem found, not just the first.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %d issue(s): %s", ErrTokenListInvalid, len(e.Issues), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrTokenListInvalid
}
