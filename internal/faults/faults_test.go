package faults

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrIO, "decode", "bad header", io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO in chain: %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause in chain: %v", err)
	}
	if !strings.Contains(err.Error(), "decode: bad header") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrNoFaceDetected, "merge", "", nil)
	if got := err.Error(); got != "no face detected: merge" {
		t.Errorf("message: got %q", got)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(nil, " ", "", nil)
	if !errors.Is(err, ErrIO) {
		t.Errorf("nil marker should default to ErrIO")
	}
	if !strings.HasSuffix(err.Error(), "pipeline failure") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"untagged", errors.New("boom"), 1},
		{"no face", Wrap(ErrNoFaceDetected, "run", "", nil), 2},
		{"config", Wrap(ErrConfig, "load", "", nil), 3},
		{"geometry", Wrap(ErrGeometryMismatch, "restore", "", nil), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
