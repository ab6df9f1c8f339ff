package root

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docker/agentsync/pkg/client"
	"github.com/docker/agentsync/pkg/runtime"
	"github.com/docker/agentsync/pkg/tui"
	"github.com/docker/agentsync/pkg/userconfig"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Long:  "Open the interactive chat, resuming an existing session or starting fresh on first send",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL := flags.resolveServerURL()
			slog.Debug("Starting chat", "server", serverURL, "session_id", sessionID)

			c, err := client.New(serverURL)
			if err != nil {
				return err
			}

			orch := runtime.New(c)
			if sessionID != "" {
				sess, err := c.GetSession(cmd.Context(), sessionID)
				if err != nil {
					return fmt.Errorf("loading session %s: %w", sessionID, err)
				}
				orch.AttachSession(sess)
				orch.SetActive(sess.ID)
			}

			cfg, err := userconfig.Load()
			if err != nil {
				slog.Warn("Failed to load user config", "error", err)
				cfg = &userconfig.Config{}
			}
			settings := userconfig.Settings{}
			if cfg.Settings != nil {
				settings = *cfg.Settings
			}

			m := tui.NewModel(orch, settings)

			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Resume an existing session by id")

	return cmd
}
