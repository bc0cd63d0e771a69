package util

import (
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	got, ok := ParseTime("2026-03-01T10:30:00Z")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTimeUnixSeconds(t *testing.T) {
	got, ok := ParseTime("1767225600")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Unix() != 1767225600 {
		t.Fatalf("got unix %d", got.Unix())
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2026-13-40", "-5"} {
		if _, ok := ParseTime(s); ok {
			t.Fatalf("expected %q to fail", s)
		}
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("got %v, want default", got)
	}
	if got := ParseTimeDefault("2026-03-01T10:30:00Z", def); got.Equal(def) {
		t.Fatal("expected parsed value, got default")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("4x", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}
