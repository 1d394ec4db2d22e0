package ui

import (
	"fmt"
	"time"

	"github.com/Makepad-fr/lister/internal/model"
)

// AllDone is shown instead of a list when there are no tasks.
const AllDone = "All Done :)"

// CompleteBadge marks completed tasks.
const CompleteBadge = "COMPLETE"

const maxTitle = 80

// Header renders "<Weekday>'s Tasks" with live counts.
func Header(now time.Time, done, pending int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render(now.Weekday().String()+"'s Tasks"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)
}

// TaskLine renders checkbox, title and, for completed tasks, the badge.
func TaskLine(task model.Task) string {
	t := Current()
	title := Truncate(task.Title, maxTitle)
	if !task.Completed {
		line := fmt.Sprintf("%s %s", t.Muted.Render(t.BoxUnchecked), title)
		if task.Editing {
			line += " " + t.Accent.Render("(editing)")
		}
		return line
	}
	return fmt.Sprintf("%s %s  %s",
		t.Success.Render(t.BoxChecked), t.Done.Render(title), t.Badge.Render(CompleteBadge))
}

// Truncate shortens s to at most n runes, ending in "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}
