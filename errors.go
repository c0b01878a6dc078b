package skintone

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration is returned when the landmark index sets or the processor options
	// cannot be satisfied by the supplied input. It aborts the processing of a face.
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientData signals that there are no pixels left to compute statistics from.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateGeometry is returned for patch polygons with less than three vertices.
	ErrDegenerateGeometry = degenerateError{}
)

// degenerateError belongs to the configuration error class,
// since a malformed polygon can only originate from a malformed landmark source.
type degenerateError struct{}

func (degenerateError) Error() string { return "degenerate geometry" }

func (degenerateError) Is(target error) bool {
	return target == ErrConfiguration
}

// FaceError wraps a pipeline error with the face and the patch it originated from.
type FaceError struct {
	Face   int
	Region string
	Err    error
}

func (e *FaceError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("face %d: %v", e.Face, e.Err)
	}
	return fmt.Sprintf("face %d, %s: %v", e.Face, e.Region, e.Err)
}

func (e *FaceError) Unwrap() error { return e.Err }
