package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	formadapt "github.com/reoring/formadapt"
	js "github.com/reoring/formadapt/jsonschema"
	"github.com/reoring/formadapt/kaptinlin"
	"github.com/reoring/formadapt/santhosh"
)

// readInput reads path, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func loadSchema(cmd *cobra.Command, path string, asYAML bool) (*js.Schema, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	if asYAML || isYAMLPath(path) {
		return js.ParseYAML(data)
	}
	return js.Parse(data)
}

// buildAdapter wraps s in an adapter of the named library. Struct-backed
// go-playground adapters need a Go type and are not available here.
func buildAdapter(library string, s *js.Schema) (*formadapt.Adapter[any], error) {
	switch formadapt.Library(library) {
	case formadapt.LibraryKaptinlin:
		return kaptinlin.Adapter[any](s)
	case formadapt.LibrarySanthosh:
		return santhosh.Adapter[any](s)
	case formadapt.LibraryUnknown, "":
		return formadapt.Unknown[any](nil, s), nil
	case formadapt.LibraryPlayground:
		return nil, fmt.Errorf("library %q requires a Go struct type", library)
	default:
		return nil, fmt.Errorf("unsupported library %q", library)
	}
}
