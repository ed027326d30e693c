package domain

import (
	"errors"
	"sort"
	"strings"
)

const (
	FieldNonField = "non_field_errors"

	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	ErrParseID      = errors.New("failed to parse id")
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// ValidationError carries field-keyed messages and is rendered as a 400 body
// of the form {"field": ["message", ...]}.
type ValidationError struct {
	Fields map[string][]string
	err    error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Fields: map[string][]string{field: {err.Error()}},
		err:    err,
	}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

type (
	PaginationRequest struct {
		Page  int
		Limit int
	}

	PaginatedResponse struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  any     `json:"results"`
	}
)

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
