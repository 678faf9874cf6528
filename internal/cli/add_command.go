package cli

import (
	"strings"

	"todo/internal/api"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task from the joined arguments
func (c *AddCommand) Execute(args []string) error {
	text := strings.Join(args, " ")

	if err := c.app.load(); err != nil {
		return c.app.finish(err)
	}
	return c.app.finish(c.app.run(func(a api.API) error {
		a.RequestCreate(text)
		return a.Wait()
	}))
}
