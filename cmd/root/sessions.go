package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docker/agentsync/pkg/client"
	"github.com/docker/agentsync/pkg/transcript"
)

func newSessionsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage sessions on the server",
	}

	cmd.AddCommand(newSessionsListCmd(flags))
	cmd.AddCommand(newSessionsShowCmd(flags))
	cmd.AddCommand(newSessionsDeleteCmd(flags))
	cmd.AddCommand(newSessionsRenameCmd(flags))

	return cmd
}

func newSessionsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(flags.resolveServerURL())
			if err != nil {
				return err
			}

			sessions, err := c.GetSessions(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range sessions {
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s  %4d messages  %s\n",
					s.ID, s.Status, s.NumMessages, title)
			}
			return nil
		},
	}
}

func newSessionsShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(flags.resolveServerURL())
			if err != nil {
				return err
			}

			sess, err := c.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, node := range transcript.DeriveRecords(sess.Messages) {
				switch node.Kind {
				case transcript.NodeToolRecord:
					rec := node.Record
					if rec.Call != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "[tool] %s\n", rec.Call.Name)
					}
					switch {
					case rec.Awaiting():
						fmt.Fprintln(cmd.OutOrStdout(), "       (awaiting result)")
					case rec.Result != nil:
						fmt.Fprintf(cmd.OutOrStdout(), "       %s\n", rec.Result.Content)
					}
				case transcript.NodeToolText:
					fmt.Fprintf(cmd.OutOrStdout(), "[tool] %s\n", node.Message.Content)
				default:
					if node.Compaction {
						fmt.Fprintln(cmd.OutOrStdout(), "--- conversation compacted ---")
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", node.Message.Role, node.Message.Content)
				}
			}
			return nil
		},
	}
}

func newSessionsDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(flags.resolveServerURL())
			if err != nil {
				return err
			}
			return c.DeleteSession(cmd.Context(), args[0])
		},
	}
}

func newSessionsRenameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Rename a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(flags.resolveServerURL())
			if err != nil {
				return err
			}
			return c.UpdateSessionTitle(cmd.Context(), args[0], args[1])
		},
	}
}
