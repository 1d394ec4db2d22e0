package model

import (
	"cmp"
	"slices"
	"time"
)

// Task is a single to-do entry. Editing is session-only UI state and is
// not meaningful across restarts.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Editing   bool   `json:"editing"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

// Created returns CreatedAt as a time.
func (t Task) Created() time.Time { return time.UnixMilli(t.CreatedAt) }

// SortForDisplay returns a copy of tasks ordered by creation time, with
// incomplete tasks ahead of completed ones. The input is left untouched.
func SortForDisplay(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})
	slices.SortStableFunc(out, func(a, b Task) int {
		return cmp.Compare(rank(a.Completed), rank(b.Completed))
	})
	return out
}

func rank(done bool) int {
	if done {
		return 1
	}
	return 0
}

// Stats counts completed and pending tasks.
func Stats(tasks []Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
