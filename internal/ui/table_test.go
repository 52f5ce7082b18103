package ui

import (
	"strings"
	"testing"
)

func TestTableAlignment(t *testing.T) {
	tb := NewTable("results", 80, false)
	tb.Add("Vec<i32>: Clone", "ok", "impl<T> Clone for Vec<T>")
	tb.Add("i32: Foo", "err", "")
	tb.Add("_: Bar", "ambiguous", "")

	lines := strings.Split(strings.TrimSuffix(tb.View(), "\n"), "\n")
	if len(lines) != 4 || lines[0] != "results" {
		t.Fatalf("View = %q", lines)
	}
	want := []string{
		"         ok Vec<i32>: Clone  impl<T> Clone for Vec<T>",
		"        err i32: Foo",
		"  ambiguous _: Bar",
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Fatalf("line %d = %q, want %q", i+1, lines[i+1], w)
		}
	}
	if tb.Count("err") != 1 || tb.Len() != 3 {
		t.Fatalf("Count/Len = %d/%d", tb.Count("err"), tb.Len())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"HashMap<String, Vec<u8>>", 10, "HashMap..."},
		{"abcdef", 3, "abc"},
		{"日本語の型", 6, "日..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := truncate(tt.value, tt.width); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
			}
		})
	}
}
