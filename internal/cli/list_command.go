package cli

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute loads the list from the store and prints it
func (c *ListCommand) Execute(args []string) error {
	return c.app.finish(c.app.load())
}
