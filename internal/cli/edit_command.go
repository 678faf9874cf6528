package cli

import (
	"strings"

	"todo/internal/api"
)

// EditCommand handles the edit command
type EditCommand struct {
	app *App
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app}
}

// Execute replaces the text of the task named by args[0]. The edit goes
// through an editor, so unchanged text is not written.
func (c *EditCommand) Execute(args []string) error {
	task, err := c.app.target(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	return c.app.finish(c.app.run(func(a api.API) error {
		editor := a.RequestOpen(task)
		editor.SetText(text)
		a.RequestCommit(editor)
		return a.Wait()
	}))
}
