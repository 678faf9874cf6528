package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/config"
)

const defaultAppTimeout = 30 * time.Second

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	config *config.Config
	newApp AppFactory
}

// NewRootCommand creates the root cobra command with global flags. The
// configuration is loaded on every run, once flags are parsed.
func NewRootCommand(newApp AppFactory, out, errOut io.Writer) *RootCommand {
	root := &RootCommand{
		newApp: newApp,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line task list",
		Long: `todo keeps a list of tasks in a local SQLite database, newest first.

EXAMPLES:
  todo add Write the report              # Add a task
  todo list                              # Show every task
  todo done 1                            # Complete the first task in the list
  todo undo 3f9a                         # Reopen the task whose id starts with 3f9a
  todo edit 2 Write the final report     # Replace a task's text
  todo delete 2                          # Delete a task
  todo retry                             # Load the list again after a failure

TASK REFERENCES:
  A <ref> is either a position in the list (1 is the newest task) or a
  prefix of the task's id, as shown next to each task by 'todo list'.

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is YAML, read from TODO_CONFIG or ~/.todo/config.yaml.
  A .env file in the working directory is loaded before anything else.

  Database Configuration:
    TODO_DB_DIR                            Database directory (default: ~/.todo)
    TODO_DB_FILENAME                       Database filename (default: todo.db)
    TODO_DB_DIR_PERMISSIONS                Directory permissions, octal (default: 0755)
    TODO_DB_BUSY_TIMEOUT                   SQLite busy timeout (default: 5s)

  Validation Configuration:
    TODO_VALIDATION_TEXT_MAX               Maximum task text length (default: 1024)

  Application Configuration:
    TODO_APP_TIMEOUT                       Timeout for one command (default: 30s)
    TODO_APP_VERBOSE                       Enable verbose output (default: false)
    TODO_LOG_FORMAT                        Log format, text or json (default: text)
    TODO_DEBUG                             Enable debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}
	root.cmd.SetOut(out)
	root.cmd.SetErr(errOut)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command with args
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	return r.cmd.ExecuteContext(ctx)
}

// Config returns the configuration of the last run, or nil before one
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("db-dir", "", "Database directory (overrides TODO_DB_DIR)")
	flags.String("db-file", "", "Database filename (overrides TODO_DB_FILENAME)")
	flags.Int("text-max-length", 0, "Maximum task text length (overrides TODO_VALIDATION_TEXT_MAX)")
	flags.Duration("timeout", 0, "Timeout for one command (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TODO_APP_VERBOSE)")
	flags.Bool("debug", false, "Enable debug logging (overrides TODO_DEBUG)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long:    "List every task, newest first, with its position and id prefix.",
		Args:    cobra.NoArgs,
		RunE: r.run(func(app *App, args []string) error {
			return NewListCommand(app).Execute(args)
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a task",
		Long:  "Add a task with the given text. Arguments are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(func(app *App, args []string) error {
			return NewAddCommand(app).Execute(args)
		}),
	}

	editCmd := &cobra.Command{
		Use:   "edit [ref] [text]",
		Short: "Replace a task's text",
		Long:  "Replace the text of the task named by ref. Arguments after ref are joined with spaces.",
		Args:  cobra.MinimumNArgs(2),
		RunE: r.run(func(app *App, args []string) error {
			return NewEditCommand(app).Execute(args)
		}),
	}

	doneCmd := &cobra.Command{
		Use:   "done [ref]",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(app *App, args []string) error {
			return NewCompleteCommand(app, true).Execute(args)
		}),
	}

	undoCmd := &cobra.Command{
		Use:   "undo [ref]",
		Short: "Mark a task as not completed",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(app *App, args []string) error {
			return NewCompleteCommand(app, false).Execute(args)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:     "delete [ref]",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long:    "Delete the task named by ref. Deletion is permanent.",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(app *App, args []string) error {
			return NewDeleteCommand(app).Execute(args)
		}),
	}

	retryCmd := &cobra.Command{
		Use:   "retry",
		Short: "Load the task list again",
		Long:  "Load the task list and, if loading fails with a retryable error, try once more.",
		Args:  cobra.NoArgs,
		RunE: r.run(func(app *App, args []string) error {
			return NewRetryCommand(app).Execute(args)
		}),
	}

	r.cmd.AddCommand(listCmd, addCmd, editCmd, doneCmd, undoCmd, deleteCmd, retryCmd)
}

// run adapts a command handler to cobra. Each run gets its own App, bounded
// by the application timeout and closed when the handler returns.
func (r *RootCommand) run(execute func(app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		app := r.newApp(ctx, r.config)
		defer func() {
			if closeErr := app.Close(); closeErr != nil && err == nil {
				err = app.errors.Handle("close task store", closeErr)
			}
		}()

		return execute(app, args)
	}
}

// getAppTimeout returns the configured application timeout or default
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return defaultAppTimeout
}

// loadConfig loads the configuration with the flags that were set on the
// command line applied on top.
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		dbDir, _ := flags.GetString("db-dir")
		overrides.DBDir = &dbDir
	}
	if flags.Changed("db-file") {
		dbFile, _ := flags.GetString("db-file")
		overrides.DBFilename = &dbFile
	}
	if flags.Changed("text-max-length") {
		textMax, _ := flags.GetInt("text-max-length")
		overrides.TextMaxLength = &textMax
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}
	if flags.Changed("debug") {
		debug, _ := flags.GetBool("debug")
		overrides.Debug = &debug
	}

	cfg, err := config.NewLoader().LoadWithOverrides(overrides)
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}
