package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/releaseplan/app"
	"github.com/kilianp07/releaseplan/config"
	"github.com/kilianp07/releaseplan/infra/logger"
)

// ConfigEnv names the environment variable holding the configuration file
// path. Without it the planner runs with defaults and environment overrides.
const ConfigEnv = "RELEASEPLAN_CONFIG"

// NewRootCmd builds the releaseplan command tree.
func NewRootCmd() *cobra.Command {
	var input, output string
	root := &cobra.Command{
		Use:          "releaseplan",
		Short:        "Select non-overlapping release windows for a 10-day sprint",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withService(func(svc *app.Service) error {
				_, err := svc.Plan(ctx, input, output)
				return err
			})
		},
	}
	root.Flags().StringVar(&input, "input", "releases.txt", "path to the input file")
	root.Flags().StringVar(&output, "output", "solution.txt", "path to the output file")
	root.AddCommand(newCheckCmd(), newHistoryCmd())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().ExecuteContext(context.Background()) }

func withService(fn func(*app.Service) error) error {
	cfg, err := config.Load(os.Getenv(ConfigEnv))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(svc)
}
