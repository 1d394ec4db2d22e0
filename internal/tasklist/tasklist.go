// Package tasklist owns the task collection and the pending input, and
// writes the whole collection back to the key-value store after every change.
package tasklist

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/Makepad-fr/lister/internal/model"
	"github.com/Makepad-fr/lister/internal/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultKey is the storage key the collection lives under.
const DefaultKey = "taskStorage"

//go:embed tasks.schema.json
var schemaSource string

var collectionSchema = jsonschema.MustCompileString("tasks.schema.json", schemaSource)

// Op names a mutation.
type Op string

const (
	OpAdd             Op = "added"
	OpToggleCompleted Op = "toggled"
	OpToggleEditing   Op = "editing toggled"
	OpSaveEdit        Op = "edited"
	OpDelete          Op = "removed"
)

// Change describes one applied mutation. Tasks is the new collection.
type Change struct {
	Op    Op
	Task  model.Task
	Tasks []model.Task
}

// Observer is notified after a mutation and before it is persisted.
type Observer func(Change)

// List is the single owner of the task collection.
type List struct {
	kv        store.KV
	key       string
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
	observers []Observer

	pending string
	tasks   []model.Task
}

// Option configures a List.
type Option func(*List)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(l *List) {
		if key != "" {
			l.key = key
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *List) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option { return func(l *List) { l.now = now } }

func WithIDs(newID func() string) Option { return func(l *List) { l.newID = newID } }

func WithObserver(o Observer) Option {
	return func(l *List) { l.observers = append(l.observers, o) }
}

// New returns an empty list backed by kv. Call Load to restore saved tasks.
func New(kv store.KV, opts ...Option) *List {
	l := &List{
		kv:     kv,
		key:    DefaultKey,
		logger: log.New(io.Discard),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		tasks:  []model.Task{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the collection with the persisted one. Missing or
// unreadable data leaves an empty collection; nothing is written back.
func (l *List) Load(ctx context.Context) {
	l.tasks = []model.Task{}

	raw, ok, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.logger.Warn("could not read saved tasks, starting empty", "key", l.key, "err", err)
		return
	}
	if !ok {
		l.logger.Debug("no saved tasks", "key", l.key)
		return
	}
	tasks, err := decode(raw)
	if err != nil {
		l.logger.Warn("saved tasks are malformed, starting empty", "key", l.key, "err", err)
		return
	}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			l.logger.Warn("dropping duplicate task id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		t.Editing = false
		l.tasks = append(l.tasks, t)
	}
	l.logger.Debug("loaded tasks", "count", len(l.tasks))
}

func decode(raw []byte) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := collectionSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return tasks, nil
}

func (l *List) persist(ctx context.Context) error {
	b, err := json.Marshal(l.tasks)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := l.kv.Set(ctx, l.key, b); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// commit installs next as the collection, notifies observers and persists.
// A failed save restores the previous collection so memory matches storage.
func (l *List) commit(ctx context.Context, op Op, task model.Task, next []model.Task) error {
	prev := l.tasks
	l.tasks = next
	change := Change{Op: op, Task: task, Tasks: l.Tasks()}
	for _, o := range l.observers {
		o(change)
	}
	l.logger.Debug("tasks changed", "op", string(op), "id", task.ID, "count", len(next))
	if err := l.persist(ctx); err != nil {
		l.tasks = prev
		l.logger.Error("save failed, change reverted", "op", string(op), "id", task.ID, "err", err)
		return err
	}
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (l *List) Tasks() []model.Task { return slices.Clone(l.tasks) }

// Display returns the collection in display order.
func (l *List) Display() []model.Task { return model.SortForDisplay(l.tasks) }

func (l *List) Pending() string { return l.pending }

// SetPending stores the not-yet-submitted title.
func (l *List) SetPending(text string) { l.pending = text }

// Find looks a task up by exact id.
func (l *List) Find(id string) (model.Task, bool) {
	i := l.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return l.tasks[i], true
}

func (l *List) index(id string) int {
	return slices.IndexFunc(l.tasks, func(t model.Task) bool { return t.ID == id })
}

// Add appends a task titled with the pending input as typed, and clears it.
// Empty input adds nothing.
func (l *List) Add(ctx context.Context) (model.Task, bool, error) {
	title := l.pending
	l.pending = ""
	if title == "" {
		return model.Task{}, false, nil
	}
	t := model.Task{
		ID:        l.newID(),
		Title:     title,
		CreatedAt: l.now().UnixMilli(),
	}
	next := append(slices.Clone(l.tasks), t)
	return t, true, l.commit(ctx, OpAdd, t, next)
}

// update replaces the task matching id with fn's result. Unknown ids are a no-op.
func (l *List) update(ctx context.Context, op Op, id string, fn func(*model.Task)) error {
	i := l.index(id)
	if i < 0 {
		return nil
	}
	next := slices.Clone(l.tasks)
	fn(&next[i])
	return l.commit(ctx, op, next[i], next)
}

func (l *List) ToggleCompleted(ctx context.Context, id string) error {
	return l.update(ctx, OpToggleCompleted, id, func(t *model.Task) { t.Completed = !t.Completed })
}

func (l *List) ToggleEditing(ctx context.Context, id string) error {
	return l.update(ctx, OpToggleEditing, id, func(t *model.Task) { t.Editing = !t.Editing })
}

// SaveEdit retitles the task and closes its edit form.
func (l *List) SaveEdit(ctx context.Context, id, title string) error {
	return l.update(ctx, OpSaveEdit, id, func(t *model.Task) {
		t.Title = title
		t.Editing = false
	})
}

func (l *List) Delete(ctx context.Context, id string) error {
	i := l.index(id)
	if i < 0 {
		return nil
	}
	gone := l.tasks[i]
	next := slices.Delete(slices.Clone(l.tasks), i, i+1)
	return l.commit(ctx, OpDelete, gone, next)
}
