package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestLineOf(t *testing.T) {
	lines := []int{5, 12, 20}
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"first line start", 0, 1},
		{"first line middle", 3, 1},
		{"first newline", 5, 1},
		{"second line", 6, 2},
		{"second newline", 12, 2},
		{"third line", 15, 3},
		{"after last newline", 25, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineOf(tt.offset, lines); got != tt.want {
				t.Errorf("LineOf(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestLineOfEmptyTable(t *testing.T) {
	for _, off := range []int{0, 1, 100} {
		if got := LineOf(off, nil); got != 1 {
			t.Errorf("LineOf(%d, nil) = %d, want 1", off, got)
		}
	}
}

func TestLineOfMonotonic(t *testing.T) {
	lines := []int{3, 4, 10, 11, 30}
	prev := 0
	for off := 0; off < 40; off++ {
		got := LineOf(off, lines)
		if got < prev {
			t.Fatalf("LineOf(%d) = %d, smaller than previous %d", off, got, prev)
		}
		prev = got
	}
}

func TestColumnOf(t *testing.T) {
	lines := []int{5, 12}
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{4, 4},
		{6, 1},
		{9, 4},
		{13, 1},
		{20, 8},
	}
	for _, tt := range tests {
		if got := ColumnOf(tt.offset, lines); got != tt.want {
			t.Errorf("ColumnOf(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
	if got := ColumnOf(7, nil); got != 7 {
		t.Errorf("ColumnOf(7, nil) = %d, want 7", got)
	}
}

func TestFormat(t *testing.T) {
	got := Format("Expected expression", 9, []int{5})
	want := "Expected expression at line 2, 4"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestErrorMatchesFormat(t *testing.T) {
	lines := []int{2, 8}
	e := Errorf(10, lines, "Symbol %q does not exist", "y")
	if e.Error() != Format(`Symbol "y" does not exist`, 10, lines) {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, 0, nil)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is lost the cause: %v", err)
	}
	if err.Error() != "boom at line 1, 0" {
		t.Errorf("Error() = %q", err.Error())
	}
	if again := Wrap(err, 50, []int{1}); again != err {
		t.Errorf("re-wrapping a positioned error should be a no-op")
	}
	if Wrap(nil, 0, nil) != nil {
		t.Errorf("Wrap(nil) should be nil")
	}
}

func TestSnippet(t *testing.T) {
	src := "num x = 1;\nx = \"s\";\n"
	e := New("Cannot assign", 11, []int{10, 19})
	snip := e.Snippet(src)
	parts := strings.Split(snip, "\n")
	if len(parts) != 2 {
		t.Fatalf("snippet lines = %d, want 2: %q", len(parts), snip)
	}
	if parts[0] != `  2 | x = "s";` {
		t.Errorf("source line = %q", parts[0])
	}
	if strings.Index(parts[1], "^") != len("  2 | ") {
		t.Errorf("caret misplaced: %q", parts[1])
	}
	if (&Error{Offset: 99}).Snippet("short") != "" {
		t.Errorf("out of range offset should render nothing")
	}
}
