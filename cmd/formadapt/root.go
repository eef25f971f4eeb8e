package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type app struct {
	logLevel  string
	logFormat string
	logger    *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "formadapt",
		Short:         "Inspect form adapters derived from JSON Schema",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", formatText, "log format (text, json, logfmt)")
	cmd.AddCommand(newInspectCmd(a), newValidateCmd(a))
	return cmd
}
