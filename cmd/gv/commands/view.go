package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/logging"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/thumbs"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/ui"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/watcher"
)

var (
	static bool
	theme  string
)

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&static, "static", false, "do not reload when the source file changes")
	cmd.Flags().StringVar(&theme, "theme", "", "dark or light (overrides the config)")
}

// view [source]: run the gallery TUI.
func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Browse a gallery in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
	addViewFlags(cmd)
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	if theme != "" {
		cfg.Theme = strings.ToLower(theme)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, closeLog, err := logging.New(logging.Opts{Path: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := loader.Open(sourceArg(args))
	if err != nil {
		return err
	}
	log.Info().Str("source", src.String()).Msg("starting viewer")

	dark := cfg.Theme == "dark"
	renderer := lipgloss.NewRenderer(os.Stdout)
	renderer.SetHasDarkBackground(dark)

	m := ui.NewModel(
		loader.NewFetcher(src, retryConfig(), log),
		thumbs.NewCache(cfg.Thumbs.Timeout, log),
		ui.Options{
			Source:      src.String(),
			CellPX:      cfg.CellPX,
			Concurrency: cfg.Thumbs.Concurrency,
			Dark:        dark,
			Renderer:    renderer,
			Log:         log,
		},
	)
	defer m.Teardown()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if path := src.Path(); path != "" && !static && !cfg.Static {
		w := watcher.New(path, func() { p.Send(ui.SourceChangedMsg{}) }, watcher.WithLogger(log))
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("live reload disabled")
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("viewer exited")
		return fmt.Errorf("running gallery viewer: %w", err)
	}
	return nil
}
