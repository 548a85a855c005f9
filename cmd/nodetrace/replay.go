package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nodetrace/internal/errors"
	"github.com/vango-dev/nodetrace/pkg/script"
)

func replayCmd() *cobra.Command {
	var (
		asJSON bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a script and print its events",
		Long: `Replay a script against an instrumented document.

Every logical attach, detach and lifecycle hook is printed in order,
followed by the final component tree. If the script has an expect
list, the recorded events are checked against it.

Examples:
  nodetrace replay table.yaml
  nodetrace replay table.yaml --json
  nodetrace replay table.yaml --quiet
  nodetrace replay table.yaml --debug --log-level=debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args[0])
			if err != nil {
				return err
			}
			return runReplay(cmd, newSession(cfg), args[0], asJSON, quiet)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the result")

	return cmd
}

func runReplay(cmd *cobra.Command, s *session, path string, asJSON, quiet bool) error {
	defer s.close()

	sc, err := script.ParseFile(path)
	if err != nil {
		return report(cmd, err, asJSON, quiet)
	}
	runErr := s.player.Run(sc)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.player.Events()); err != nil {
			return err
		}
		return report(cmd, runErr, asJSON, quiet)
	}

	if !quiet {
		for _, e := range s.player.Events() {
			fmt.Fprintf(out, "%4d  %s\n", e.Seq, e)
		}
		fmt.Fprintln(out)
		if err := s.player.Dump(out); err != nil {
			return err
		}
		if s.spans != nil {
			fmt.Fprintf(out, "\n%d spans recorded\n", len(s.spans.GetSpans()))
		}
		fmt.Fprintln(out)
	}
	if runErr != nil {
		return report(cmd, runErr, asJSON, quiet)
	}

	name := sc.Name
	if name == "" {
		name = path
	}
	if len(sc.Expect) > 0 {
		fmt.Fprintf(out, "\033[32m✓\033[0m %s: %d expectations met\n", name, len(sc.Expect))
	} else if !quiet {
		fmt.Fprintf(out, "\033[32m✓\033[0m %s: %d steps replayed\n", name, len(sc.Steps))
	}
	return nil
}

// report writes a script error in the machine readable forms: one JSON
// object per line with --json, a single file:line line with --quiet.
// Other errors are left for main to print.
func report(cmd *cobra.Command, err error, asJSON, quiet bool) error {
	var te *errors.TraceError
	if err == nil || !(asJSON || quiet) || !stderrors.As(err, &te) {
		return err
	}
	if asJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), te.FormatJSON())
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), te.FormatCompact())
	}
	return &reportedError{err: err}
}
