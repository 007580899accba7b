package main

import (
	"fmt"
	"net"
	"os"

	"icons-api/core/icons"
	"icons-api/core/interfaces"
	stdhttp "icons-api/infrastructure/http/standard"
	logruslogger "icons-api/infrastructure/logger/logrus"
	"icons-api/pkg/config"

	"github.com/spf13/cobra"
)

// app carries the collaborators commands need, so tests can swap them
type app struct {
	resolver   interfaces.Resolver
	loadConfig func() (*config.Config, error)
	newFinder  func(opts icons.Options, deps interfaces.Dependencies) interfaces.IconFinder
}

func defaultApp() *app {
	return &app{
		resolver:   net.DefaultResolver,
		loadConfig: config.Load,
		newFinder: func(opts icons.Options, deps interfaces.Dependencies) interfaces.IconFinder {
			deps.HTTPClient = stdhttp.NewStandardHTTPClient(opts.Timeout,
				stdhttp.WithDialGuard(),
				stdhttp.WithLogger(deps.Logger),
			)
			return icons.NewService(deps, opts)
		},
	}
}

// newLogger writes warnings to stderr, or everything down to debug with --verbose
func newLogger(cmd *cobra.Command) (interfaces.Logger, error) {
	level := "warn"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger, err := logruslogger.New(config.LogConfig{Level: level, Format: "text"})
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// NewRootCmd creates the root command for iconctl.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iconctl",
		Short: "Operator tool for the Icons API",
		Long: `iconctl runs website icon discovery once, outside the server, and
checks URLs against the outbound request guard.

Limits are read from the same configuration as the server
(ICONS_CONFIG_FILE and ICONS_* environment variables).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
