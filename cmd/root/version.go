package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docker/agentsync/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		Run:   runVersionCommand,
	}
}

func runVersionCommand(_ *cobra.Command, _ []string) {
	fmt.Printf("agentsync version %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.Commit)
}
