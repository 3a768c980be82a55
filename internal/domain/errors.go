package domain

import (
	"fmt"
	"net/http"
)

// TransportError reports that the configuration endpoint could not be
// reached or answered with a non-2xx status.
type TransportError struct {
	Op     string // "load" or "save"
	Status int    // HTTP status, 0 when no response was received
	Body   string // response body describing the error, if any
	Err    error  // underlying network error, if any
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s configuration: HTTP %d %s: %s",
			e.Op, e.Status, http.StatusText(e.Status), e.Body)
	}
	return fmt.Sprintf("%s configuration: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError reports a payload that failed shape validation.
type FormatError struct {
	Reason  string
	Missing []string // required top-level keys absent from the payload
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration format: %s: %v", e.Reason, e.Err)
	}
	return "invalid configuration format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationWarning is a non-fatal problem found while decoding. The offending
// value has already been replaced when the warning is reported.
type ValidationWarning struct {
	Field   string
	Value   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("%s=%q: %s", w.Field, w.Value, w.Message)
}
