// Package tui is the interactive task list, built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/lister/internal/model"
	"github.com/Makepad-fr/lister/internal/tasklist"
	"github.com/Makepad-fr/lister/internal/ui"
)

// listItem adapts a task to bubbles/list.Item
type listItem struct{ task model.Task }

func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+ui.TaskLine(it.task))
}

// Model is the Bubble Tea model. Every action goes through the shared
// task list, which persists the collection itself.
type Model struct {
	ctx   context.Context
	tasks *tasklist.List
	now   func() time.Time
	keys  keyMap

	list  list.Model
	input textinput.Model // mirrors the pending input
	edit  textinput.Model

	adding bool
	editID string // task whose edit form is open
	err    error  // last save error

	width, height int
}

// Options tune the model.
type Options struct {
	Now func() time.Time
}

// New builds the model over tasks, which should already be loaded.
func New(ctx context.Context, tasks *tasklist.List, opt Options) Model {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	theme := ui.Current()
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Help
	l.Styles.PaginationStyle = theme.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.help
	l.AdditionalFullHelpKeys = keys.help

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "New task title..."
	input.CharLimit = 200

	edit := textinput.New()
	edit.Prompt = "> "
	edit.Placeholder = "Task title..."
	edit.CharLimit = 200

	m := Model{
		ctx:    ctx,
		tasks:  tasks,
		now:    opt.Now,
		keys:   keys,
		list:   l,
		input:  input,
		edit:   edit,
		width:  80,
		height: 24,
	}
	m.refresh("")
	return m
}

// Run starts the program on the alt screen and blocks until it quits.
func Run(ctx context.Context, tasks *tasklist.List, opt Options) error {
	p := tea.NewProgram(New(ctx, tasks, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// refresh rebuilds the list from the task list in display order, keeping
// the cursor on selectID when given.
func (m *Model) refresh(selectID string) tea.Cmd {
	shown := m.tasks.Display()
	items := make([]list.Item, 0, len(shown))
	sel := -1
	for i, t := range shown {
		items = append(items, listItem{task: t})
		if t.ID == selectID {
			sel = i
		}
	}
	prev := m.list.Index()
	cmd := m.list.SetItems(items)
	if !m.list.IsFiltered() {
		switch {
		case sel >= 0:
			m.list.Select(sel)
		case prev >= len(items) && len(items) > 0:
			m.list.Select(len(items) - 1)
		}
	}
	done, pending := model.Stats(shown)
	m.list.Title = ui.Header(m.now(), done, pending)
	return cmd
}

func (m Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Task{}, false
	}
	return m.tasks.Find(it.task.ID)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	if m.adding {
		return m.updateAdding(msg)
	}
	if m.editID != "" {
		return m.updateEditing(msg)
	}
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(k, m.keys.Add):
			m.adding = true
			m.input.SetValue(m.tasks.Pending())
			m.input.CursorEnd()
			return m, m.input.Focus()

		case key.Matches(k, m.keys.Toggle):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.err = m.tasks.ToggleCompleted(m.ctx, t.ID)
			return m, m.refresh(t.ID)

		case key.Matches(k, m.keys.Edit):
			t, ok := m.selected()
			if !ok || !tasklist.ControlsFor(t).Edit {
				return m, nil
			}
			if !t.Editing {
				m.err = m.tasks.ToggleEditing(m.ctx, t.ID)
			}
			m.editID = t.ID
			m.edit.SetValue(t.Title)
			m.edit.CursorEnd()
			return m, tea.Batch(m.refresh(t.ID), m.edit.Focus())

		case key.Matches(k, m.keys.Delete):
			t, ok := m.selected()
			if !ok || !tasklist.ControlsFor(t).Delete {
				return m, nil
			}
			m.err = m.tasks.Delete(m.ctx, t.ID)
			return m, m.refresh("")
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			m.tasks.SetPending(m.input.Value())
			task, added, err := m.tasks.Add(m.ctx)
			m.err = err
			m.input.SetValue(m.tasks.Pending())
			if !added {
				return m, nil
			}
			m.adding = false
			m.input.Blur()
			return m, m.refresh(task.ID)
		case tea.KeyEsc:
			// pending text survives until the next add
			m.adding = false
			m.input.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tasks.SetPending(m.input.Value())
	return m, cmd
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			id := m.editID
			m.editID = ""
			m.edit.Blur()
			m.err = m.tasks.SaveEdit(m.ctx, id, m.edit.Value())
			return m, m.refresh(id)
		case tea.KeyEsc:
			id := m.editID
			m.editID = ""
			m.edit.Blur()
			if t, ok := m.tasks.Find(id); ok && t.Editing {
				m.err = m.tasks.ToggleEditing(m.ctx, id)
			}
			return m, m.refresh(id)
		}
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	theme := ui.Current()
	formOpen := m.adding || m.editID != ""

	listHeight := m.height - 4
	if formOpen {
		listHeight -= 4
	}
	if m.err != nil {
		listHeight--
	}
	m.list.SetSize(m.width-4, max(listHeight, 3))

	var content string
	if len(m.list.Items()) == 0 {
		content = ui.Header(m.now(), 0, 0) + "\n\n" +
			theme.Title.Render(ui.AllDone) + "\n\n" +
			theme.Help.Render("a add • q quit")
	} else {
		content = m.list.View()
	}

	if formOpen {
		title, field := "Add new task", m.input.View()
		if m.editID != "" {
			title, field = "Edit task", m.edit.View()
		}
		form := title + "\n" + field + "\n" + theme.Help.Render("enter save • esc cancel")
		content += "\n" + ui.PanelString(form)
	}
	if m.err != nil {
		content += "\n" + theme.Error.Render("✖ "+m.err.Error())
	}
	return ui.PanelString(content)
}
