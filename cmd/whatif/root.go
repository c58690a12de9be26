package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/pkg/logger"
)

var errFormat = errors.New("unknown output format")

// cli holds state shared by the subcommands once the root has run.
type cli struct {
	logLevel string
	svc      *app.Service
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "whatif",
		Short:        "Explore lineup what-if scenarios",
		Long:         "Pick the best lineup from a roster and compare it across what-if scenarios.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	root.AddCommand(newRunCmd(c), newLineupCmd(c), newSensitivityCmd(c), newRosterCmd(c))
	return root
}

// setup loads configuration and builds the service. Logs go to stderr so
// stdout carries only the rendered output.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}
	c.svc = app.New(append(app.FromConfig(cfg), app.WithLogger(logger.Named("whatif")))...)
	return nil
}

func checkFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want %s)", errFormat, format, strings.Join(allowed, ", "))
}

func weightFlag(cmd *cobra.Command, weight float64) *float64 {
	if !cmd.Flags().Changed("weight") {
		return nil
	}
	return &weight
}
