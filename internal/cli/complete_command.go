package cli

import (
	"todo/internal/api"
)

// CompleteCommand handles the done and undo commands
type CompleteCommand struct {
	app       *App
	completed bool
}

// NewCompleteCommand creates a handler that sets a task's completion to completed
func NewCompleteCommand(app *App, completed bool) *CompleteCommand {
	return &CompleteCommand{app: app, completed: completed}
}

// Execute marks the task named by args[0]
func (c *CompleteCommand) Execute(args []string) error {
	task, err := c.app.target(args[0])
	if err != nil {
		return err
	}

	return c.app.finish(c.app.run(func(a api.API) error {
		a.RequestUpdate(task.WithCompleted(c.completed))
		return a.Wait()
	}))
}
