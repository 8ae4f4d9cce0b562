package sessiongen

import (
	"errors"
	"fmt"
)

// ErrGeneration matches every *Error.
var ErrGeneration = errors.New("session generation failed")

// Reason classifies a generation failure.
type Reason string

const (
	// ReasonService covers transport and provider failures.
	ReasonService Reason = "service"
	// ReasonMalformed means the response was not JSON matching the schema.
	ReasonMalformed Reason = "malformed"
	// ReasonStructure means the JSON broke the four-question rules.
	ReasonStructure Reason = "structure"
)

// Error is returned by Generator for every failure.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate session (%s): %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrGeneration }
