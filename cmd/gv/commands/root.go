package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/config"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/logging"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	cfg = nil
	root := &cobra.Command{
		Use:   "gv [source]",
		Short: "Terminal photo gallery viewer",
		Long: "gv browses a photo gallery (JSONL, JSON, YAML, SQLite or an HTTP endpoint)\n" +
			"as a card grid with a full-screen lightbox.\n\nEnvironment:\n" + config.Usage(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			cfg = loaded
			return nil
		},
		RunE: runView,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error or off")
	addViewFlags(root)

	root.AddCommand(viewCmd(), listCmd(), exportCmd(), versionCmd())
	return root
}

// sourceArg returns the source named on the command line, the configured
// source, or loader.DefaultSource.
func sourceArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if cfg != nil && cfg.Source != "" {
		return cfg.Source
	}
	return loader.DefaultSource
}

// retryConfig maps the fetch settings onto the loader's backoff.
func retryConfig() loader.RetryConfig {
	retry := loader.DefaultRetryConfig()
	retry.MaxRetries = cfg.Fetch.MaxRetries
	if cfg.Fetch.InitialInterval > 0 {
		retry.InitialInterval = cfg.Fetch.InitialInterval
	}
	return retry
}

// consoleLogger logs to stderr for the non-interactive commands, where the
// terminal is not owned by the UI.
func consoleLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	log, _, err := logging.New(logging.Opts{
		Level:  cfg.Log.Level,
		Writer: zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true},
	})
	return log, err
}
