package sideline

import (
	"errors"
	"fmt"
)

// Failure kinds, matched with errors.Is against a *FetchError.
var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("unexpected status")
	ErrDecode    = errors.New("malformed payload")
	ErrInvalid   = errors.New("missing identifier")
)

// FetchError describes a failed backend call.
type FetchError struct {
	Op         string // e.g. "fetch market"
	URL        string
	StatusCode int // 0 unless Kind is ErrStatus
	Kind       error
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to %s: %s returned %d", e.Op, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("failed to %s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// label returns the metrics label for the failure kind.
func (e *FetchError) label() string {
	switch e.Kind {
	case ErrStatus:
		return "status"
	case ErrDecode:
		return "decode"
	case ErrInvalid:
		return "invalid"
	default:
		return "transport"
	}
}
