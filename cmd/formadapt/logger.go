package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Log formats accepted by --log-format.
const (
	formatText   = "text"
	formatJSON   = "json"
	formatLogfmt = "logfmt"
)

func newLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "formadapt",
	})
	switch format {
	case formatText, "":
		logger.SetFormatter(log.TextFormatter)
	case formatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case formatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
	return logger, nil
}
