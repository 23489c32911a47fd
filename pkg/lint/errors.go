package lint

import (
	"errors"
	"fmt"
)

// Resource limits applied when no Limits are configured.
const (
	// MaxTextSize is the largest accepted text, in bytes.
	MaxTextSize = 10 << 20
	// MaxBatchSize is the largest accepted number of texts in one batch.
	MaxBatchSize = 100
)

// Limits bounds the work a single call may do.
type Limits struct {
	MaxTextBytes  int // maximum text size in bytes
	MaxBatchItems int // maximum number of texts per batch
}

// DefaultLimits returns the limits built from MaxTextSize and MaxBatchSize.
func DefaultLimits() Limits {
	return Limits{MaxTextBytes: MaxTextSize, MaxBatchItems: MaxBatchSize}
}

// withDefaults fills zero or negative fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxTextBytes <= 0 {
		l.MaxTextBytes = d.MaxTextBytes
	}
	if l.MaxBatchItems <= 0 {
		l.MaxBatchItems = d.MaxBatchItems
	}
	return l
}

// Sentinel errors for errors.Is matching.
var (
	ErrInputTooLarge  = errors.New("text too large")
	ErrBatchTooLarge  = errors.New("batch too large")
	ErrMalformedInput = errors.New("malformed input")
)

// LimitKind identifies which limit was exceeded.
type LimitKind int

// Limit kinds.
const (
	InputTooLarge LimitKind = iota
	BatchTooLarge
)

// LimitError reports a call rejected by a resource limit before any check ran.
type LimitError struct {
	Kind  LimitKind
	Size  int // observed size: bytes for InputTooLarge, texts for BatchTooLarge
	Max   int // configured maximum
	Index int // batch position of the text, or -1 outside a batch
}

// Error implements error. The message always contains "too large".
func (e *LimitError) Error() string {
	switch e.Kind {
	case BatchTooLarge:
		return fmt.Sprintf("batch too large: %d texts (max %d texts)", e.Size, e.Max)
	default:
		if e.Index >= 0 {
			return fmt.Sprintf("text %d too large: %d bytes (max %d bytes)", e.Index, e.Size, e.Max)
		}
		return fmt.Sprintf("text too large: %d bytes (max %d bytes)", e.Size, e.Max)
	}
}

// Is matches ErrInputTooLarge or ErrBatchTooLarge according to Kind.
func (e *LimitError) Is(target error) bool {
	switch e.Kind {
	case BatchTooLarge:
		return target == ErrBatchTooLarge
	default:
		return target == ErrInputTooLarge
	}
}

// checkFailure records a check that could not be compiled or run.
// It never leaves the engine; it only feeds logging.
type checkFailure struct {
	CheckID string
	Err     error
}

func (e *checkFailure) Error() string {
	return fmt.Sprintf("check %s failed: %v", e.CheckID, e.Err)
}

func (e *checkFailure) Unwrap() error {
	return e.Err
}
