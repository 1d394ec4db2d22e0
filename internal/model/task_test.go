package model

import (
	"testing"
)

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestSortForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
		want  []string
	}{
		{
			name: "completed after incomplete",
			tasks: []Task{
				{ID: "A", CreatedAt: 1},
				{ID: "B", CreatedAt: 2, Completed: true},
				{ID: "C", CreatedAt: 3},
			},
			want: []string{"A", "C", "B"},
		},
		{
			name: "creation order within groups",
			tasks: []Task{
				{ID: "D", CreatedAt: 40, Completed: true},
				{ID: "C", CreatedAt: 30},
				{ID: "B", CreatedAt: 20, Completed: true},
				{ID: "A", CreatedAt: 10},
			},
			want: []string{"A", "C", "B", "D"},
		},
		{
			name: "equal timestamps keep insertion order",
			tasks: []Task{
				{ID: "x", CreatedAt: 5},
				{ID: "y", CreatedAt: 5},
				{ID: "z", CreatedAt: 5},
			},
			want: []string{"x", "y", "z"},
		},
		{
			name:  "empty",
			tasks: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SortForDisplay(tt.tasks))
			if len(got) != len(tt.want) {
				t.Fatalf("SortForDisplay: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SortForDisplay: got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestSortForDisplayLeavesInputAlone(t *testing.T) {
	in := []Task{{ID: "b", CreatedAt: 2}, {ID: "a", CreatedAt: 1}}
	_ = SortForDisplay(in)
	if in[0].ID != "b" || in[1].ID != "a" {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestStats(t *testing.T) {
	done, pending := Stats([]Task{{Completed: true}, {}, {}})
	if done != 1 || pending != 2 {
		t.Errorf("Stats: got (%d, %d), want (1, 2)", done, pending)
	}
}
