package tasklist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/lister/internal/model"
)

var (
	ErrNotFound  = errors.New("no such task")
	ErrAmbiguous = errors.New("ambiguous task id")
)

// Resolve finds a task by 1-based display position, exact id or unique id prefix.
func (l *List) Resolve(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, ErrNotFound
	}
	// An all-digit id prefix is tried only when the number is out of range.
	n, numErr := strconv.Atoi(ref)
	shown := l.Display()
	if numErr == nil && n >= 1 && n <= len(shown) {
		return shown[n-1], nil
	}
	if t, ok := l.Find(ref); ok {
		return t, nil
	}

	var match []model.Task
	for _, t := range l.tasks {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		if numErr == nil {
			return model.Task{}, fmt.Errorf("%w: index out of range: have %d, got %d", ErrNotFound, len(shown), n)
		}
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguous, ref, len(match))
	}
}

// Controls lists the actions offered for a task.
type Controls struct {
	Toggle bool
	Edit   bool
	Delete bool
}

// ControlsFor returns the actions available on t. Completed tasks can only
// be unchecked.
func ControlsFor(t model.Task) Controls {
	return Controls{
		Toggle: true,
		Edit:   !t.Completed,
		Delete: !t.Completed,
	}
}
