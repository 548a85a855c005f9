package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nodetrace/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		var reported *reportedError
		if !stderrors.As(err, &reported) {
			errors.PrintError(err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error a command already wrote to its error stream.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodetrace",
		Short: "Replay and inspect component tree scripts",
		Long: `nodetrace replays operation scripts against an instrumented
document and reports how components enter and leave the logical tree.

  • Prints every logical attach, detach and lifecycle hook
  • Dumps the resulting component tree
  • Serves a live inspector with a websocket event stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addConfigFlags(cmd)
	cmd.AddCommand(
		replayCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
