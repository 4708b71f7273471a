package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand printing the build metadata.
// With --short only the tool version is printed, which suits scripts pinning the tool.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the appcast-updater build metadata.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := Current()
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the tool version")
	root.AddCommand(cmd)
}
