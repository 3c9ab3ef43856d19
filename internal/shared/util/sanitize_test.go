package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeError(t *testing.T) {
	if got := SanitizeError(nil); got != "" {
		t.Fatalf("nil error = %q", got)
	}
	if got := SanitizeError(errors.New(" upstream\nfailed\r ")); got != "upstream failed" {
		t.Fatalf("got %q", got)
	}
	long := SanitizeError(errors.New(strings.Repeat("x", 2*MaxErrorLen)))
	if len(long) != MaxErrorLen {
		t.Fatalf("expected cap at %d, got %d", MaxErrorLen, len(long))
	}
}
