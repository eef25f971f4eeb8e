package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	formadapt "github.com/reoring/formadapt"
	js "github.com/reoring/formadapt/jsonschema"
)

type report struct {
	Library     formadapt.Library   `json:"library" yaml:"library"`
	Defaults    any                 `json:"defaults" yaml:"defaults"`
	Constraints js.InputConstraints `json:"constraints" yaml:"constraints"`
	Objects     js.ObjectShape      `json:"objects" yaml:"objects"`
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		asYAML  bool
		library string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "inspect <schema|->",
		Short: "Print the defaults, constraints and object shape derived from a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(cmd, args[0], asYAML)
			if err != nil {
				return err
			}
			a.logger.Debug("schema loaded", "source", args[0])
			adapter, err := buildAdapter(library, s)
			if err != nil {
				return err
			}
			m, err := formadapt.MapAdapter(adapter)
			if err != nil {
				return err
			}
			a.logger.Info("adapter mapped", "library", m.Library, "constraints", len(m.Constraints), "objects", len(m.Objects))
			rep := report{Library: m.Library, Constraints: m.Constraints, Objects: m.Objects}
			if m.Defaults != nil {
				rep.Defaults = *m.Defaults
			}
			return writeReport(cmd, output, rep)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "parse the schema as YAML")
	cmd.Flags().StringVar(&library, "library", string(formadapt.LibraryUnknown), "adapter library (unknown, kaptinlin, santhosh)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format (json, yaml)")
	return cmd
}

func writeReport(cmd *cobra.Command, output string, v any) error {
	w := cmd.OutOrStdout()
	switch output {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output %q", output)
	}
}
