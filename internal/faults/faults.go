package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIO marks images that cannot be read or decoded.
	ErrIO = errors.New("image io error")
	// ErrConfig marks detector or client initialization failures.
	ErrConfig = errors.New("configuration error")
	// ErrNoFaceDetected marks runs whose consolidated region list is empty.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrInvalidImage marks images with zero or negative dimensions.
	ErrInvalidImage = errors.New("invalid image")
	// ErrGeometryMismatch marks an edited canvas whose size differs from the
	// recorded fit transform.
	ErrGeometryMismatch = errors.New("geometry mismatch")
	// ErrResponseFormat marks an edit service payload of unrecognized shape.
	ErrResponseFormat = errors.New("response format error")
	// ErrEditService marks a failed edit service call or error status.
	ErrEditService = errors.New("edit service error")
)

// Wrap builds an error tagged with marker. The operation and message give
// context; err (optional) is kept in the chain so errors.Is and errors.As
// still reach it.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker returns the taxonomy marker carried by err, or nil when err was
// not produced through Wrap.
func Marker(err error) error {
	for _, marker := range []error{
		ErrNoFaceDetected,
		ErrGeometryMismatch,
		ErrInvalidImage,
		ErrResponseFormat,
		ErrEditService,
		ErrConfig,
		ErrIO,
	} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

// ExitCode maps a failure to a process exit status.
func ExitCode(err error) int {
	switch Marker(err) {
	case nil:
		if err == nil {
			return 0
		}
		return 1
	case ErrNoFaceDetected:
		return 2
	case ErrConfig:
		return 3
	default:
		return 1
	}
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
