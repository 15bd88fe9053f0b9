package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfexplorer/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if detailed {
				fmt.Fprint(cmd.OutOrStdout(), version.GetDetailedVersionInfo())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "include the commit")
	return cmd
}
