package xerrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDeriveMatchesKind(t *testing.T) {
	err := Derive(ErrZeroMarginal, "query %d", 3)
	if !errors.Is(err, ErrZeroMarginal) {
		t.Fatalf("expected derived error to match its kind")
	}
	if errors.Is(err, ErrEmptyCategory) {
		t.Errorf("derived error must not match a different kind")
	}
	if ErrZeroMarginal.Detail != "every joint probability is zero" {
		t.Errorf("kind template was mutated: %q", ErrZeroMarginal.Detail)
	}
	if !strings.Contains(err.Error(), "query 3") {
		t.Errorf("detail missing from message: %s", err.Error())
	}
}

func TestWrappedChain(t *testing.T) {
	cause := errors.New("bad count")
	err := fmt.Errorf("load: %w", DeriveWrap(ErrMalformedInput, cause, "row %d", 7))

	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput through fmt wrapping")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to stay reachable")
	}
	if got := CodeOf(err); got != ErrMalformedInput.Code {
		t.Errorf("CodeOf = %d, want %d", got, ErrMalformedInput.Code)
	}
}

func TestWrapKeepsKind(t *testing.T) {
	base := Derive(ErrEmptyTrainingSet, "file x.csv")
	wrapped := Wrap(base, ErrInternal, "classify failed")

	if wrapped.Type != ErrNotFound {
		t.Errorf("Wrap changed error type to %s", wrapped.Type)
	}
	if !errors.Is(wrapped, ErrEmptyTrainingSet) {
		t.Errorf("wrapped error lost its kind")
	}
	if base.Message != "empty training set" {
		t.Errorf("Wrap mutated the original error")
	}
	if Wrap(nil, ErrInternal, "noop") != nil {
		t.Errorf("Wrap(nil) should be nil")
	}
}

func TestStackCaptured(t *testing.T) {
	err := InvalidArg("negative count")
	if len(err.Stack) == 0 {
		t.Errorf("expected a captured stack")
	}
	if err.WithContext("row", 2).Context["row"] != 2 {
		t.Errorf("context not recorded")
	}
}

func TestWrapInternal(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapInternal(cause, "write metrics textfile")
	if err.Type != ErrInternal || !errors.Is(err, cause) {
		t.Errorf("unexpected wrapped error: %v", err)
	}
	if got := CodeOf(fmt.Errorf("cli: %w", err)); got != int(ErrInternal) {
		t.Errorf("CodeOf = %d, want %d", got, int(ErrInternal))
	}
	if d := InvalidArg("bad flag").WithDetail("got %d", 3).Detail; d != "got 3" {
		t.Errorf("detail = %q", d)
	}
}
