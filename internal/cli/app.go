package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"todo/internal/api"
	"todo/internal/config"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/services"
	"todo/internal/state"
	"todo/internal/validation"
)

// App holds the task stack behind one CLI command run
type App struct {
	service   services.TaskService
	container *state.Container
	api       api.API
	printer   *Printer
	errors    *ErrorHandler
}

// AppFactory builds the App for one command run. ctx bounds every operation
// the App performs.
type AppFactory func(ctx context.Context, cfg *config.Config) *App

// DefaultAppFactory builds Apps backed by the configured SQLite store. The
// store is opened on first use.
func DefaultAppFactory(out, errOut io.Writer) AppFactory {
	return func(ctx context.Context, cfg *config.Config) *App {
		logger := newLogger(cfg, errOut)
		validator := validation.NewTaskValidatorWithValidator(validation.NewValidatorWithConfig(cfg))
		service := services.NewTaskService(config.StoreOpener(cfg, logger), validator, logger)
		return NewApp(ctx, service, logger, NewPrinter(out, errOut, cfg.Application.Verbose))
	}
}

// NewApp wires a container and API over service
func NewApp(ctx context.Context, service services.TaskService, logger *slog.Logger, printer *Printer) *App {
	container := state.New(service, state.WithLogger(logger))
	return &App{
		service:   service,
		container: container,
		api:       api.New(ctx, container),
		printer:   printer,
		errors:    NewErrorHandler(),
	}
}

// Close ends the App's subscriptions and releases the store
func (a *App) Close() error {
	a.container.Close()
	return a.service.Close()
}

// newLogger logs diagnostics to errOut only when asked to; notices are the
// user-facing error channel.
func newLogger(cfg *config.Config, errOut io.Writer) *slog.Logger {
	if !cfg.Application.Verbose && !cfg.Application.Debug && !logging.DebugEnabled() {
		return logging.Discard()
	}
	return logging.New(errOut, logging.Options{
		Debug:  cfg.Application.Debug,
		Format: cfg.Application.LogFormat,
	})
}

// run calls do with the printer bound to the API. do issues intents and
// waits for them; every notice raised meanwhile is printed once run returns.
func (a *App) run(do func(api.API) error) error {
	stop := a.api.Bind(a.printer)
	defer stop()
	return do(a.api)
}

// load refreshes the list from the store
func (a *App) load() error {
	return a.run(func(a api.API) error {
		a.RequestRefresh()
		return a.Wait()
	})
}

// finish prints the list as last published and converts a failure that was
// already shown as a notice into a NoticeError.
func (a *App) finish(err error) error {
	a.printer.PrintTasks(a.printer.Latest())
	if err != nil {
		return &NoticeError{Err: err}
	}
	return nil
}

// resolve finds the task named by ref, either a 1-based list position or a
// unique id prefix. An in-range position wins over an id prefix made of
// digits.
func resolve(tasks []domain.Task, ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, errors.NewInvalidInputError("ref", ref, "a task position or id prefix is required")
	}

	n, numErr := strconv.Atoi(ref)
	if numErr == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], nil
	}

	prefix := strings.ToLower(ref)
	var matches []domain.Task
	for _, task := range tasks {
		if strings.HasPrefix(task.ID, prefix) {
			matches = append(matches, task)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		return domain.Task{}, errors.NewInvalidInputError("ref", ref,
			fmt.Sprintf("id prefix matches %d tasks", len(matches)))
	case numErr != nil:
		return domain.Task{}, errors.NewInvalidInputError("ref", ref, "no task matches this id prefix")
	case len(tasks) == 0:
		return domain.Task{}, errors.NewInvalidInputError("ref", ref, "there are no tasks")
	default:
		return domain.Task{}, errors.NewInvalidInputError("ref", ref,
			fmt.Sprintf("position must be between 1 and %d", len(tasks)))
	}
}

// target loads the list and resolves ref against it
func (a *App) target(ref string) (domain.Task, error) {
	if err := a.load(); err != nil {
		return domain.Task{}, a.finish(err)
	}
	task, err := resolve(a.api.Tasks(), ref)
	if err != nil {
		return domain.Task{}, a.errors.HandleSimple(err)
	}
	return task, nil
}
