package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"todo/internal/domain"
)

// Printer renders task lists and error notices. It is the CLI's api.Listener.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool

	errorColor *color.Color
	hintColor  *color.Color
	doneColor  *color.Color
	faintColor *color.Color

	mu      sync.Mutex
	latest  []domain.Task
	notices int
}

// NewPrinter creates a printer writing lists to out and notices to errOut
func NewPrinter(out, errOut io.Writer, verbose bool) *Printer {
	return &Printer{
		out:        out,
		errOut:     errOut,
		verbose:    verbose,
		errorColor: color.New(color.FgRed, color.Bold),
		hintColor:  color.New(color.FgYellow),
		doneColor:  color.New(color.FgGreen),
		faintColor: color.New(color.Faint),
		latest:     []domain.Task{},
	}
}

// OnTasksChanged records the list for the next PrintTasks
func (p *Printer) OnTasksChanged(tasks []domain.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = tasks
	if p.verbose {
		p.faintColor.Fprintf(p.errOut, "tasks changed: %d\n", len(tasks))
	}
}

// OnError prints a notice
func (p *Printer) OnError(title, message string, retryable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices++
	p.errorColor.Fprintf(p.errOut, "%s: ", title)
	fmt.Fprintln(p.errOut, message)
	if retryable {
		p.hintColor.Fprintln(p.errOut, "Run 'todo retry' to try again.")
	}
}

// Latest returns the last list delivered to the printer
func (p *Printer) Latest() []domain.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Notices returns how many notices have been printed
func (p *Printer) Notices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notices
}

// PrintTasks prints tasks as a numbered list, newest first
func (p *Printer) PrintTasks(tasks []domain.Task) {
	if len(tasks) == 0 {
		p.faintColor.Fprintln(p.out, "No tasks.")
		return
	}

	for i, task := range tasks {
		mark := "[ ]"
		if task.IsCompleted {
			mark = p.doneColor.Sprint("[x]")
		}
		text := task.Text
		if !task.HasText() {
			text = p.faintColor.Sprint("(empty)")
		}
		fmt.Fprintf(p.out, "%3d. %s %s  %s\n", i+1, mark, text, p.faintColor.Sprint(shortID(task.ID)))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
