package store

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Failure classes reported by the profile store client. Use errors.Is.
var (
	ErrNetwork      = errors.New("profile store unreachable")
	ErrUnauthorized = errors.New("profile store rejected the credentials")
	ErrNotFound     = errors.New("profile not found")
	ErrValidation   = errors.New("profile failed validation")
)

// StatusError is a non-2xx answer from the store.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// Unwrap maps the status onto the failure classes.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	}
	return nil
}

// ValidationError lists the fields of a ProfileInput that were rejected
// before any request was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid profile: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
