package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"todo/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A .env file is optional; its values never override the environment.
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(cli.DefaultAppFactory(os.Stdout, os.Stderr), os.Stdout, os.Stderr)
	if err := root.Execute(ctx, args); err != nil {
		var notice *cli.NoticeError
		if !stderrors.As(err, &notice) {
			color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
