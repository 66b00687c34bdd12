package productclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrServer     = errors.New("server error")
	ErrNetwork    = errors.New("network error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrServer
	}
}

// Error is returned for every non-2xx response and every transport failure.
// Status is zero for network errors.
type Error struct {
	Kind    Kind
	Status  int
	Message string            // Server supplied message, if any
	Fields  map[string]string // Offending fields of a validation failure
	Err     error             // Transport error for KindNetwork
}

func (e *Error) Error() string {
	if e.Kind == KindNetwork {
		return fmt.Sprintf("productclient: network error: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("productclient: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("productclient: %s (status %d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}

// kindOf maps a response status to its error kind.
func kindOf(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}

// ServerMessage returns the message the server attached to err, or "".
func ServerMessage(err error) string {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	return ""
}
