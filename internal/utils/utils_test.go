package utils

import (
	"path/filepath"
	"testing"
)

func TestGetAbsDBPath(t *testing.T) {
	got, err := GetAbsDBPath("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "raden.sqlite" {
		t.Fatalf("unexpected default path: %s", got)
	}

	got, err = GetAbsDBPath(":memory:")
	if err != nil || got != ":memory:" {
		t.Fatalf("memory path should pass through, got %q (%v)", got, err)
	}

	got, err = GetAbsDBPath("data/raden.sqlite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %s", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("want b, got %q", got)
	}
	if got := FirstNonEmpty("", " "); got != "" {
		t.Fatalf("want empty, got %q", got)
	}
}
