package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/lister/internal/export"
	"github.com/Makepad-fr/lister/internal/model"
	"github.com/Makepad-fr/lister/internal/store"
	"github.com/Makepad-fr/lister/internal/tasklist"
	"github.com/Makepad-fr/lister/internal/tui"
	"github.com/Makepad-fr/lister/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // list grouped by pending/done
	Key    string
	Store  store.Options
	Logger *log.Logger

	Stdout, Stderr io.Writer
	Now            func() time.Time

	// RunTUI replaces tui.Run; tests use it to avoid a terminal.
	RunTUI func(ctx context.Context, tasks *tasklist.List) error
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.RunTUI == nil {
		now := o.Now
		o.RunTUI = func(ctx context.Context, tasks *tasklist.List) error {
			return tui.Run(ctx, tasks, tui.Options{Now: now})
		}
	}
}

type runner struct {
	opt   Options
	tasks *tasklist.List
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "ls", "add", "done", "edit", "rm", "tui", "export":
	default:
		ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
		fmt.Fprintln(opt.Stderr)
		PrintHelp(opt.Stderr)
		return 2
	}

	storeOpts := opt.Store
	storeOpts.Logger = opt.Logger
	kv, err := store.Open(ctx, storeOpts)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	defer kv.Close()

	r := &runner{opt: opt}
	r.tasks = tasklist.New(kv,
		tasklist.WithKey(opt.Key),
		tasklist.WithLogger(opt.Logger),
		tasklist.WithClock(opt.Now),
		tasklist.WithObserver(func(c tasklist.Change) {
			if c.Op != tasklist.OpToggleEditing {
				ui.OK(opt.Stdout, string(c.Op))
			}
		}),
	)
	r.tasks.Load(ctx)

	switch cmd {
	case "ls":
		return r.list()

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Stderr, "usage: lister add <title...>")
			return 2
		}
		return r.add(ctx, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: lister done <ref>")
			return 2
		}
		return r.toggle(ctx, a[0])

	case "edit":
		if len(a) < 2 {
			ui.Fail(opt.Stderr, "usage: lister edit <ref> <title...>")
			return 2
		}
		return r.edit(ctx, a[0], strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: lister rm <ref>")
			return 2
		}
		return r.remove(ctx, a[0])

	case "tui":
		if err := opt.RunTUI(ctx, r.tasks); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return 1
		}
		return 0

	default: // export
		return r.export(a)
	}
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `lister - a tiny task list

Usage:
  lister [flags] <subcommand> [args]

Subcommands:
  add <title...>          Add a new task (title can be multiple words)
  ls                      List tasks (pending first, oldest first)
  done <ref>              Toggle completion of a task
  edit <ref> <title...>   Rename a pending task
  rm <ref>                Remove a pending task
  tui                     Interactive list
  export <json|csv|pdf>   Write tasks to stdout, or to -o <file>

A <ref> is the number shown by 'ls', a task id, or a unique id prefix.

Flags:
  --store file|mysql   --data-file PATH   --key NAME   --dsn DSN
  --theme classic|neon|mono   --no-color   --group
  --log-level LEVEL   --log-format text|json|logfmt   --log-file PATH

Examples:
  lister add "Buy milk"
  lister ls
  lister done 2
  lister edit 1 "Buy oat milk"
  lister rm 3
  lister export pdf -o tasks.pdf
`)
}

// -------------- subcommand impls ----------------

func (r *runner) list() int {
	shown := r.tasks.Display()
	t := ui.Current()
	d, p := model.Stats(shown)

	var lines []string
	lines = append(lines, ui.Header(r.opt.Now(), d, p))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	switch {
	case len(shown) == 0:
		lines = append(lines, t.Title.Render(ui.AllDone))
	case r.opt.Group:
		lines = append(lines, groupLines(shown)...)
	default:
		lines = append(lines, flatLines(shown, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `lister add \"Buy milk\"`"))
	ui.Panel(r.opt.Stdout, lines)
	return 0
}

func (r *runner) add(ctx context.Context, title string) int {
	// shell args carry no meaningful surrounding whitespace
	r.tasks.SetPending(strings.TrimSpace(title))
	_, added, err := r.tasks.Add(ctx)
	if err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return 1
	}
	if !added {
		ui.Fail(r.opt.Stderr, "add: empty title")
		return 2
	}
	return 0
}

// resolve maps a ref to a task, reporting lookup failures as usage errors.
func (r *runner) resolve(ref string) (model.Task, int) {
	task, err := r.tasks.Resolve(ref)
	if err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		if errors.Is(err, tasklist.ErrNotFound) {
			fmt.Fprintln(r.opt.Stderr, ui.Current().Muted.Render("Hint: run `lister ls` to see valid numbers"))
		}
		return model.Task{}, 2
	}
	return task, 0
}

func (r *runner) toggle(ctx context.Context, ref string) int {
	task, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	if err := r.tasks.ToggleCompleted(ctx, task.ID); err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return 1
	}
	return 0
}

func (r *runner) edit(ctx context.Context, ref, title string) int {
	task, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	if !tasklist.ControlsFor(task).Edit {
		ui.Fail(r.opt.Stderr, "edit: task is complete; reopen it with `lister done` first")
		return 2
	}
	if err := r.tasks.SaveEdit(ctx, task.ID, strings.TrimSpace(title)); err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return 1
	}
	return 0
}

func (r *runner) remove(ctx context.Context, ref string) int {
	task, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	if !tasklist.ControlsFor(task).Delete {
		ui.Fail(r.opt.Stderr, "rm: task is complete; reopen it with `lister done` first")
		return 2
	}
	if err := r.tasks.Delete(ctx, task.ID); err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return 1
	}
	return 0
}

func (r *runner) export(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(r.opt.Stderr)
	out := fs.String("o", "", "write to this file instead of stdout")
	// format may come before or after -o
	var format string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		format, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if format == "" && fs.NArg() == 1 {
		format = fs.Arg(0)
	} else if fs.NArg() != 0 || format == "" {
		ui.Fail(r.opt.Stderr, "usage: lister export <"+strings.Join(export.Formats, "|")+"> [-o file]")
		return 2
	}
	if !slices.Contains(export.Formats, strings.ToLower(format)) {
		ui.Fail(r.opt.Stderr, "export: unknown format "+format)
		return 2
	}

	w := r.opt.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			ui.Fail(r.opt.Stderr, "export: "+err.Error())
			return 1
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, r.tasks.Display(), format, r.opt.Now()); err != nil {
		ui.Fail(r.opt.Stderr, "export: "+err.Error())
		return 1
	}
	if *out != "" {
		ui.OK(r.opt.Stdout, "exported to "+*out)
	}
	return 0
}

// -------------- rendering helpers --------------

func flatLines(tasks []model.Task, start int) []string {
	out := make([]string, 0, len(tasks))
	for i, task := range tasks {
		idx := fmt.Sprintf("%2d.", start+i)
		out = append(out, fmt.Sprintf("%s %s", ui.Current().Muted.Render(idx), ui.TaskLine(task)))
	}
	return out
}

// groupLines keeps the numbering of the flat view so refs stay valid.
func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Completed {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, len(pend)+1)...)
	}
	return lines
}
