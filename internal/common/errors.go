// Package common defines sentinel errors shared by the journal store, the
// remote collaborators and the sync coordinator. Callers should use errors.Is
// and errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")

	// Input validation.
	ErrValidation = errors.New("validation failed")

	// Transport errors shared by the inference and entries clients.
	ErrNoConnectivity = errors.New("no connectivity")
	ErrNetwork        = errors.New("network error")
	ErrTimeout        = errors.New("request timed out")
	ErrDecode         = errors.New("malformed response")

	// Enrichment errors.
	ErrImageRead = errors.New("cannot read image")
	ErrNoTags    = errors.New("no tags detected")
)

// RemoteError is returned when a remote endpoint answers with a non-2xx status.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Message)
}

// IsTransient reports whether err is worth retrying on a later pass without
// any change to the entry itself.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNoConnectivity) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) {
		return true
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status >= http.StatusInternalServerError || re.Status == http.StatusTooManyRequests
	}
	return false
}
