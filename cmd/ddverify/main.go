package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/haukened/ddverify/internal/verify/common/log"
)

const appName = "ddverify"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

// errChecksFailed marks a run whose diagnostics were already printed.
var errChecksFailed = errors.New("checks failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errChecksFailed):
		return 1
	default:
		log.Error(map[string]any{"error": err.Error()}, "run failed")
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
}
