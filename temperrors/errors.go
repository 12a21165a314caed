package temperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyList = errors.New("empty list")
	// ErrCorruptState marks persisted content that could not be read back.
	ErrCorruptState = errors.New("persisted state is corrupt")
)

// TransportError reports a request that did not complete or returned a
// non-success status. StatusCode is 0 when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataShapeError reports an upstream payload with a missing field or a value
// that cannot be parsed into the expected type.
type DataShapeError struct {
	Field string
	Value string
	Err   error
}

func (e *DataShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %s: bad value %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("field %s: bad value %q", e.Field, e.Value)
}

func (e *DataShapeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDataShape reports whether err is or wraps a *DataShapeError.
func IsDataShape(err error) bool {
	var de *DataShapeError
	return errors.As(err, &de)
}
