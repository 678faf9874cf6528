package cli

import (
	"todo/internal/api"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the task named by args[0]
func (c *DeleteCommand) Execute(args []string) error {
	task, err := c.app.target(args[0])
	if err != nil {
		return err
	}

	return c.app.finish(c.app.run(func(a api.API) error {
		a.RequestDelete(task)
		return a.Wait()
	}))
}
