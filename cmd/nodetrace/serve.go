package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nodetrace/pkg/inspect"
	"github.com/vango-dev/nodetrace/pkg/script"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <script.yaml>",
		Short: "Replay a script and serve the inspector",
		Long: `Replay a script, then serve the inspector until interrupted.

Routes:
  GET /tree     component tree as JSON
  GET /events   websocket event stream
  GET /metrics  Prometheus metrics
  GET /healthz  liveness check

Examples:
  nodetrace serve table.yaml
  nodetrace serve table.yaml --port=8080 --tracing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args[0])
			if err != nil {
				return err
			}
			return runServe(newSession(cfg), args[0])
		},
	}
	return cmd
}

func runServe(s *session, path string) error {
	defer s.close()

	sc, err := script.ParseFile(path)
	if err != nil {
		return err
	}

	in := inspect.New(s.rt,
		inspect.WithLabeler(s.player.ID),
		inspect.WithGatherer(s.registry),
	)
	if err := s.player.Run(sc); err != nil {
		return err
	}
	in.Publish()
	success("Replayed %s (%d events)", path, len(s.player.Events()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	info("Inspector running at %s", s.cfg.URL())
	info("Press Ctrl+C to stop")
	fmt.Println()
	return in.Serve(ctx, s.cfg.Address())
}
