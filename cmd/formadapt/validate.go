package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	formadapt "github.com/reoring/formadapt"
)

// errInvalid signals rejected input after the issues have been printed.
var errInvalid = errors.New("input does not match the schema")

func newValidateCmd(a *app) *cobra.Command {
	var (
		asYAML  bool
		library string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "validate <schema> <data|->",
		Short: "Validate a JSON document with an adapter's validator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(cmd, args[0], asYAML)
			if err != nil {
				return err
			}
			adapter, err := buildAdapter(library, s)
			if err != nil {
				return err
			}
			if adapter.CustomValidator == nil {
				return fmt.Errorf("library %q has no validator", adapter.Library)
			}
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			res, err := adapter.CustomValidator(cmd.Context(), data)
			if err != nil {
				return err
			}
			if res.Success {
				a.logger.Info("input valid", "library", adapter.Library)
				return writeReport(cmd, output, map[string]any{"success": true, "data": res.Data})
			}
			a.logger.Warn("input rejected", "library", adapter.Library, "issues", len(res.Issues), "summary", res.Issues.Error())
			if err := writeReport(cmd, output, map[string]any{"success": false, "issues": res.Issues}); err != nil {
				return err
			}
			return fmt.Errorf("%w: %w", errInvalid, res.Issues)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "parse the schema as YAML")
	cmd.Flags().StringVar(&library, "library", string(formadapt.LibrarySanthosh), "validator library (kaptinlin, santhosh)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, yaml)")
	return cmd
}
