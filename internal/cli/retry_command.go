package cli

import (
	"todo/internal/api"
)

// RetryCommand handles the retry command
type RetryCommand struct {
	app *App
}

// NewRetryCommand creates a new retry command handler
func NewRetryCommand(app *App) *RetryCommand {
	return &RetryCommand{app: app}
}

// Execute loads the list and, if that fails with a retryable notice, retries
// it once.
func (c *RetryCommand) Execute(args []string) error {
	err := c.app.load()
	if err == nil {
		return c.app.finish(nil)
	}
	if notice := c.app.api.Snapshot().Notice; notice == nil || !notice.Retryable {
		return c.app.finish(err)
	}

	return c.app.finish(c.app.run(func(a api.API) error {
		a.RequestRetry()
		return a.Wait()
	}))
}
