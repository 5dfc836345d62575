package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bumper/internal/cli"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var verbose bool

	c := cli.New(stdout, stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return exitCode(root.ExecuteContext(ctx), stderr)
}

// exitCode reports err on stderr and maps it to an exit status.
// Interrupts are not reported.
func exitCode(err error, stderr io.Writer) int {
	status := bumperrors.ExitStatus(err)
	if status != bumperrors.ExitOK && status != bumperrors.ExitInterrupted {
		fmt.Fprintln(stderr, "Error: "+bumperrors.UserMessage(err))
	}
	return status
}
