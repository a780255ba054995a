package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationOpen     = errors.New("user already has an open or approved application")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnknownStatus       = errors.New("unknown application status")
)

// ValidationError carries one message per offending submission field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// TransitionError reports a status change the workflow does not permit.
type TransitionError struct {
	ApplicationID string
	From          ApplicationStatus
	To            ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("application %s: cannot move from %s to %s", e.ApplicationID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type UploadError struct {
	DocumentType DocumentType
	Err          error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s document: %v", e.DocumentType, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NotificationError is reported alongside a committed transition and never
// reverses it.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	if e.Recipient == "" {
		return fmt.Sprintf("send interview notification: %v", e.Err)
	}
	return fmt.Sprintf("send interview notification to %s: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
