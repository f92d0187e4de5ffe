package cmd

import (
	"io"
	"log/slog"

	"github.com/cwbudde/algo-pesfit/internal/logging"
)

func captureLogs(w io.Writer) func() {
	prev := slog.Default()
	slog.SetDefault(logging.New(w, "info", false))
	return func() { slog.SetDefault(prev) }
}
