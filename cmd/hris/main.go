// Package main is the entry point for the hris CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/cli"
	"github.com/jacksmith/hris/internal/logging"
	"github.com/jacksmith/hris/internal/ops"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	// workDir is the directory holding .hris/.
	workDir = "."
	verbose bool

	// logger is built before every command runs.
	logger *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hris",
	Short: "hris - branch-aware console for the HRIS API",
	Long: `hris is a terminal console for the HRIS administration API.

It lists and reviews leave requests, shows attendance and employees, and
exports them to Excel. Every view is scoped to the active branch, which is
remembered between runs in .hris/state.yaml.

With one branch the selection is fixed to it. With several you can pick one
or view all of them with 'hris branch use'.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API requests and branch events to stderr")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "directory containing .hris/")

	rootCmd.SetVersionTemplate("hris version {{.Version}}\n")
}

// openSession opens the workspace and applies the configured log level.
func openSession() (*ops.Session, error) {
	sess, err := ops.OpenSession(workDir, logger)
	if err != nil {
		return nil, err
	}
	if logger != nil && !verbose {
		lvl, err := logrus.ParseLevel(sess.Config.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", sess.Config.LogLevel, err)
		}
		logger.SetLevel(lvl)
	}
	return sess, nil
}

// commandContext returns the command's context, or a background context
// when the run function is called directly. The context carries a log
// entry naming the command.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := context.Background()
	name := "hris"
	if cmd != nil {
		if c := cmd.Context(); c != nil {
			ctx = c
		}
		name = cmd.CommandPath()
	}
	return logging.WithLogger(ctx, logging.Component(logger, "cli").WithField("command", name))
}
