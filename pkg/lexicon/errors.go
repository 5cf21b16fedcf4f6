package lexicon

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass categorizes provider failures for retry decisions.
type ErrorClass string

const (
	// ErrorClassNetwork covers connection-level failures: refused, reset,
	// DNS. Transient.
	ErrorClassNetwork ErrorClass = "network"
	// ErrorClassTimeout covers attempts abandoned at a deadline. Transient.
	ErrorClassTimeout ErrorClass = "timeout"
	// ErrorClassUpstream covers 5xx-style failures reported by the lexicon
	// service itself. Transient.
	ErrorClassUpstream ErrorClass = "upstream"
	// ErrorClassClient covers 4xx-style failures. Retrying cannot help.
	ErrorClassClient ErrorClass = "client"
	// ErrorClassUnknown covers everything unclassified. Treated as
	// non-transient so unexpected failures surface at the fallback layer
	// instead of burning retry attempts.
	ErrorClassUnknown ErrorClass = "unknown"
)

// ProviderError is a classified lexicon lookup failure.
type ProviderError struct {
	Class   ErrorClass
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lexicon %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("lexicon %s error: %s", e.Class, e.Message)
}

// Unwrap supports errors.Is and errors.As on the wrapped cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ClassOf extracts the error class from err. A ProviderError anywhere in
// the chain carries its own class; a bare deadline error maps to timeout;
// everything else is unknown.
func ClassOf(err error) ErrorClass {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	return ErrorClassUnknown
}

// IsTransient reports whether failures of the given class are worth
// retrying.
func IsTransient(class ErrorClass) bool {
	switch class {
	case ErrorClassNetwork, ErrorClassTimeout, ErrorClassUpstream:
		return true
	default:
		return false
	}
}
