// Package logging wires slog to the right destination for an interactive
// client: a rotating file when configured, stderr otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger. When filePath is non-empty, logs go
// to a rotating file there and the returned closer owns it; otherwise logs go
// to stderr and the closer is nil.
//
// Writing to a file matters for the TUI: stderr output would tear the screen.
func Setup(filePath string, debug bool) (io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	var closer io.Closer
	if filePath != "" {
		w, err := NewRotatingWriter(filePath)
		if err != nil {
			return nil, err
		}
		out = w
		closer = w
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})))

	return closer, nil
}
