package extract

import (
	"errors"
	"fmt"

	"github.com/abhisek/readiz/internal/reading"
)

// Kind classifies why extraction produced no usable passage.
type Kind int

const (
	KindCorruptOrUnreadable Kind = iota + 1
	KindURLUnreadable
	KindTextTooShort
)

func (k Kind) String() string {
	switch k {
	case KindCorruptOrUnreadable:
		return "corrupt or unreadable"
	case KindURLUnreadable:
		return "url unreadable"
	case KindTextTooShort:
		return "text too short"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrCorruptOrUnreadable = errors.New("document is corrupt or unreadable")
	ErrURLUnreadable       = errors.New("no readable article at url")
	ErrTextTooShort        = errors.New("extracted text is too short")
)

// Error is returned for every extraction failure.
type Error struct {
	Kind   Kind
	Source reading.ContentKind
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Source, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCorruptOrUnreadable:
		return e.Kind == KindCorruptOrUnreadable
	case ErrURLUnreadable:
		return e.Kind == KindURLUnreadable
	case ErrTextTooShort:
		return e.Kind == KindTextTooShort
	}
	return false
}

func corrupt(source reading.ContentKind, err error) *Error {
	return &Error{Kind: KindCorruptOrUnreadable, Source: source, Err: err}
}

func urlUnreadable(err error) *Error {
	return &Error{Kind: KindURLUnreadable, Source: reading.KindURL, Err: err}
}
