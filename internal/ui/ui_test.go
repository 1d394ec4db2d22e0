package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/lister/internal/model"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		wantPct            string
		wantFilled         int
	}{
		{0, 0, 10, "  0%", 0},
		{1, 2, 10, " 50%", 5},
		{3, 3, 10, "100%", 10},
		{1, 4, 2, " 25%", 1},
	}
	for _, tt := range tests {
		got := ProgressBar(tt.done, tt.total, tt.width)
		if !strings.HasSuffix(got, tt.wantPct) {
			t.Errorf("ProgressBar(%d,%d,%d): got %q, want suffix %q", tt.done, tt.total, tt.width, got, tt.wantPct)
		}
		if n := strings.Count(got, "█"); n != tt.wantFilled {
			t.Errorf("ProgressBar(%d,%d,%d): filled %d, want %d", tt.done, tt.total, tt.width, n, tt.wantFilled)
		}
	}
}

func TestTaskLine(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	open := TaskLine(model.Task{Title: "Buy milk"})
	if open != "[ ] Buy milk" {
		t.Errorf("open: got %q", open)
	}
	editing := TaskLine(model.Task{Title: "Buy milk", Editing: true})
	if !strings.Contains(editing, "(editing)") {
		t.Errorf("editing: got %q", editing)
	}
	done := TaskLine(model.Task{Title: "Buy milk", Completed: true})
	if !strings.HasPrefix(done, "[x] Buy milk") || !strings.HasSuffix(done, CompleteBadge) {
		t.Errorf("done: got %q", done)
	}
}

func TestHeader(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	friday := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	got := Header(friday, 1, 2)
	if !strings.HasPrefix(got, "Friday's Tasks") {
		t.Errorf("Header: got %q", got)
	}
	if !strings.Contains(got, "Total 3") {
		t.Errorf("Header: got %q, want Total 3", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate: got %q", got)
	}
	if got := Truncate("héllo wörld", 8); got != "héllo..." {
		t.Errorf("Truncate: got %q", got)
	}
}

func TestOKAndFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	if got := buf.String(); got != "x added\n✖ nope\n" {
		t.Errorf("output: got %q", got)
	}
}

func TestPanel(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"one", "three"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Panel: got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "one") || !strings.Contains(lines[2], "three") {
		t.Errorf("Panel: body missing:\n%s", buf.String())
	}
}
