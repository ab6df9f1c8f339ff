// Package root wires up the agentsync command tree.
package root

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docker/agentsync/pkg/logging"
	"github.com/docker/agentsync/pkg/paths"
	"github.com/docker/agentsync/pkg/userconfig"
	"github.com/docker/agentsync/pkg/version"
)

type rootFlags struct {
	serverURL   string
	debugMode   bool
	logFilePath string
	logFile     io.Closer
}

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "agentsync",
		Short: "agentsync - live client for agent conversations",
		Long:  "agentsync keeps an on-screen agent conversation consistent with server-side truth while responses stream",
		Example: `  agentsync chat
  agentsync chat --session 4f1c
  agentsync sessions list`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging before anything else so logs don't break the TUI
			logPath := flags.logFilePath
			if logPath == "" && !flags.debugMode {
				logPath = filepath.Join(paths.GetDataDir(), "agentsync.log")
			}
			closer, err := logging.Setup(logPath, flags.debugMode)
			if err != nil {
				// Fall back to stderr so we still get logs
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
				slog.Warn("Failed to set up log file", "error", err)
				return nil
			}
			flags.logFile = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if flags.logFile != nil {
				return flags.logFile.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	cmd.PersistentFlags().StringVar(&flags.serverURL, "server", "", "Conversation server URL (defaults to config or AGENTSYNC_SERVER)")
	cmd.PersistentFlags().BoolVar(&flags.debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newChatCmd(&flags))
	cmd.AddCommand(newSessionsCmd(&flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// resolveServerURL picks the server to talk to: flag over env over config
// file over default.
func (f *rootFlags) resolveServerURL() string {
	if f.serverURL != "" {
		return f.serverURL
	}

	cfg, err := userconfig.Load()
	if err != nil {
		slog.Warn("Failed to load user config", "error", err)
		cfg = &userconfig.Config{}
	}
	return cfg.GetServerURL()
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
