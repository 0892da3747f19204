package slides

import (
	"errors"
	"fmt"
	"time"
)

// ErrBusy is returned when an analyze or generate chain is already running.
var ErrBusy = errors.New("another request is still running")

// NotFoundError means the host could not resolve the presentation.
type NotFoundError struct {
	PresentationID string
}

func (e *NotFoundError) Error() string {
	if e.PresentationID == "" {
		return "could not detect presentation ID"
	}
	return fmt.Sprintf("presentation %q not found", e.PresentationID)
}

// Upstream sources.
const (
	SourceModel = "model"
	SourceHost  = "host"
)

// UpstreamError wraps a failed remote call to the model or the host client.
type UpstreamError struct {
	Source  string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Source, e.Status, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Source, msg)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError means the model reply could not be turned into an UpdatePlan.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse AI response: %s: %v", e.Reason, e.Err)
	}
	return "failed to parse AI response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a local guard failure. Nothing remote was called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BridgeTimeoutError means a bridge request never received its response.
type BridgeTimeoutError struct {
	Op        string
	RequestID string
	After     time.Duration
}

func (e *BridgeTimeoutError) Error() string {
	return fmt.Sprintf("bridge %s request %s timed out after %s", e.Op, e.RequestID, e.After)
}

// HostError is what HostClient implementations return for failures reported
// by the presentation host. Status follows HTTP semantics when known.
type HostError struct {
	Status  int
	Message string
}

func (e *HostError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("host returned status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
