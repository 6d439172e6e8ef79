// Package main implements the answernote command, a small terminal front end
// for creating answer sheets, filling them in and grading them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// closeTimeout bounds how long pending writes may take on exit.
const closeTimeout = 10 * time.Second

const usage = `usage: answernote [-config FILE] COMMAND [ARGS]

commands:
  create NAME N      create a sheet with N questions
  list               list sheets, most recently updated first
  show ID            print a sheet with its selections and grading
  select ID Q ANS    select ANS (A-D, or NONE to clear) for question Q
  grade ID Q ANS     mark ANS (A-D) as the correct answer for question Q
  resize ID N        reset the sheet to N blank questions
  clear ID           clear every selection, keeping the grading
  score ID           print the score of the graded questions
  export ID          print the shareable summary
  delete ID          delete a sheet
`

// errUsage reports malformed command lines.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "answernote: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run parses args, executes one command and shuts the application down.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("answernote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to a configuration file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, fs.Arg(0))
	}
	cmdArgs := fs.Args()[1:]
	if len(cmdArgs) != cmd.nargs {
		return fmt.Errorf("%w: %s takes %d argument(s)", errUsage, fs.Arg(0), cmd.nargs)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if closeErr := app.Close(closeCtx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return cmd.run(ctx, app, cmdArgs, stdout)
}
