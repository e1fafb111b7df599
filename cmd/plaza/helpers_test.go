package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEllipsizeKeepsShortStrings(t *testing.T) {
	if got := ellipsize("hello", 60); got != "hello" {
		t.Fatalf("ellipsize = %q, want unchanged input", got)
	}
}

func TestEllipsizeCountsRunesNotBytes(t *testing.T) {
	body := strings.Repeat("안녕하세요 ", 20)
	got := ellipsize(body, 60)
	if !utf8.ValidString(got) {
		t.Fatalf("ellipsize produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected trailing ellipsis, got %q", got)
	}
	runes := []rune(got)
	if len(runes) != 60 {
		t.Fatalf("expected 60 runes, got %d", len(runes))
	}
	if !strings.HasPrefix(body, strings.TrimSuffix(got, "...")) {
		t.Fatalf("truncated text is not a prefix of the input: %q", got)
	}
}
