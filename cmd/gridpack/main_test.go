package main

import (
	"errors"
	"fmt"
	"testing"

	griderrors "github.com/matzehuels/gridpack/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{griderrors.New(griderrors.ErrCodeOverlap, "a and b overlap"), 2},
		{fmt.Errorf("dash.json: %w", griderrors.New(griderrors.ErrCodeOutOfBounds, "x")), 2},
		{griderrors.New(griderrors.ErrCodeInvalidLayout, "read layout"), 2},
		{griderrors.New(griderrors.ErrCodeFileNotFound, "dash.json"), 1},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorLine(t *testing.T) {
	err := griderrors.Wrap(griderrors.ErrCodeFileNotFound, errors.New("no such file"), "dash.json")
	if got, want := errorLine(err), "Error [FILE_NOT_FOUND]: dash.json: no such file"; got != want {
		t.Errorf("errorLine() = %q, want %q", got, want)
	}
	if got, want := errorLine(errors.New("boom")), "Error: boom"; got != want {
		t.Errorf("errorLine() = %q, want %q", got, want)
	}
}
