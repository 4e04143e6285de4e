package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/thumbs"
)

// errExists is returned when an export would overwrite files and nobody
// agreed to it.
var errExists = errors.New("refusing to overwrite existing files (use --force)")

// Swapped out in tests.
var (
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	confirmOverwrite = func(paths []string) (bool, error) {
		ok := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing files?").
				Description(strings.Join(paths, "\n")).
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&ok),
		)).Run()
		return ok, err
	}
)

type exportFlags struct {
	svg, png, dir string
	sqlite        string
	title         string
	columns       int
	serve         int
	force         bool
}

// export [source]: write a contact sheet or a static bundle.
func exportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Write a contact sheet (--svg, --png), an HTML bundle (--dir) or a SQLite gallery (--sqlite)",
		Example: "  gv export posts.jsonl --svg sheet.svg\n" +
			"  gv export posts.jsonl --dir site --serve\n" +
			"  gv export https://example.test/api/posts --sqlite gallery.db",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, f)
		},
	}
	cmd.Flags().StringVar(&f.svg, "svg", "", "write an SVG contact sheet to this file")
	cmd.Flags().StringVar(&f.png, "png", "", "write a PNG contact sheet to this file")
	cmd.Flags().StringVar(&f.dir, "dir", "", "write an HTML bundle to this directory")
	cmd.Flags().StringVar(&f.sqlite, "sqlite", "", "store the posts in this SQLite database (existing ids are replaced)")
	cmd.Flags().StringVar(&f.title, "title", "", "sheet title (default \"Photo Gallery\")")
	cmd.Flags().IntVar(&f.columns, "columns", export.DefaultColumns, "tiles per row")
	cmd.Flags().IntVar(&f.serve, "serve", -1, "serve the --dir bundle on this port (0 or no value picks a free port)")
	cmd.Flags().Lookup("serve").NoOptDefVal = "0"
	cmd.Flags().BoolVar(&f.force, "force", false, "overwrite existing files without asking")
	return cmd
}

func runExport(cmd *cobra.Command, args []string, f exportFlags) error {
	if f.svg == "" && f.png == "" && f.dir == "" && f.sqlite == "" {
		return fmt.Errorf("nothing to export: pass --svg, --png, --dir or --sqlite")
	}
	if f.serve >= 0 && f.dir == "" {
		return fmt.Errorf("--serve needs --dir")
	}

	targets := exportTargets(f)
	if err := checkOverwrite(targets, f.force); err != nil {
		return err
	}

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
	posts := state.Posts
	out := cmd.OutOrStdout()

	if f.svg != "" {
		if err := export.SaveContactSheet(cmd.Context(), export.ContactSheetOptions{
			Path: f.svg, Format: "svg", Title: f.title, Posts: posts, Columns: f.columns,
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%d posts)\n", f.svg, len(posts))
	}
	if f.png != "" {
		cache := thumbs.NewCache(cfg.Thumbs.Timeout, log)
		if err := export.SaveContactSheet(cmd.Context(), export.ContactSheetOptions{
			Path: f.png, Format: "png", Title: f.title, Posts: posts, Columns: f.columns,
			LoadImage: cache.Load, Concurrency: cfg.Thumbs.Concurrency,
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%d posts)\n", f.png, len(posts))
	}
	if f.dir != "" {
		if err := export.WriteBundle(export.BundleOptions{
			Dir: f.dir, Title: f.title, Posts: posts, Columns: f.columns,
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote bundle to %s\n", f.dir)
	}

	if f.sqlite != "" {
		if err := loader.WriteSQLite(cmd.Context(), f.sqlite, posts); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%d posts)\n", f.sqlite, len(posts))
	}

	if f.serve < 0 {
		return nil
	}
	port, err := export.ResolvePort(f.serve)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	server := export.NewPreviewServer(f.dir, port, log)
	fmt.Fprintf(out, "Previewing at %s (Ctrl+C to stop)\n", server.URL())
	return server.Serve(ctx)
}

// exportTargets lists the files an export writes that could already exist.
func exportTargets(f exportFlags) []string {
	var paths []string
	for _, p := range []string{f.svg, f.png, f.sqlite} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if f.dir != "" {
		for _, name := range []string{export.BundleIndex, export.BundleSheet, export.BundlePosts} {
			paths = append(paths, filepath.Join(f.dir, name))
		}
	}
	return paths
}

// checkOverwrite asks before clobbering existing files when stdin is a
// terminal, and refuses otherwise unless force is set.
func checkOverwrite(paths []string, force bool) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 || force {
		return nil
	}
	if !stdinIsTerminal() {
		return fmt.Errorf("%w: %s", errExists, strings.Join(existing, ", "))
	}
	ok, err := confirmOverwrite(existing)
	if err != nil {
		return err
	}
	if !ok {
		return errExists
	}
	return nil
}
