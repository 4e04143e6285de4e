package commands

import (
	"encoding/json"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

const listTitleWidth = 40

// list [source]: print the posts of a source.
func listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [source]",
		Short: "Print the posts of a gallery source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := consoleLogger(cmd)
			if err != nil {
				return err
			}
			src, err := loader.Open(sourceArg(args))
			if err != nil {
				return err
			}
			state := loader.NewFetcher(src, retryConfig(), log).Fetch(cmd.Context())
			if state.Status == loader.StatusError {
				return state.Err
			}
			if skipped := state.Report.Malformed + state.Report.Invalid; skipped > 0 {
				log.Warn().Int("skipped", skipped).Str("source", src.String()).Msg("some posts were skipped")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				posts := state.Posts
				if posts == nil {
					posts = []model.Post{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(posts)
			}
			for _, p := range state.Posts {
				title := runewidth.FillRight(runewidth.Truncate(p.Title, listTitleWidth, "…"), listTitleWidth)
				fmt.Fprintf(out, "%-12s %s %2d  %s\n", p.ID, title, len(p.ImageURLs), p.Category)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print posts as JSON")
	return cmd
}
