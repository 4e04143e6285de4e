package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/updater"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/version"
)

// releasesURL is overridden in tests.
var releasesURL = updater.ReleasesURL

func versionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gv version %s\n", version.Version)
			if !check {
				return nil
			}
			rel, err := updater.NewChecker(releasesURL).Check(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}
			if rel == nil {
				fmt.Fprintln(out, "You are running the latest release.")
				return nil
			}
			fmt.Fprintf(out, "A newer release is available: %s\n%s\n", rel.TagName, rel.HTMLURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
