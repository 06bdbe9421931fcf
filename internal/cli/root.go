package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docrank/config"
	"docrank/internal/domain"
)

// Exit codes returned by Execute.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitEmbedderUnavailable = 2
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
	quiet    bool
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docrank",
	Short: "Persona-driven document section ranking",
	Long: `docrank finds section headings in a batch of documents, ranks the sections
by semantic relevance to a persona and task, and pulls the most useful
paragraphs out of the top-ranked sections.

Example usage:
  docrank analyze --input input.json --pdf-dir ./PDFs --output out.json
  docrank sections ./PDFs             # Show detected headings
  docrank history                     # List previous runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		// A .env file is optional; API keys may come from the real environment.
		_ = godotenv.Load()

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return err
		}

		return nil
	},
}

// Execute runs the root command and exits with a code that tells an
// unavailable embedder apart from other failures.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, domain.ErrEmbedderUnavailable) {
			os.Exit(ExitEmbedderUnavailable)
		}
		os.Exit(ExitFailure)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docrank.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "disable progress output")
}

func newLogger(lc config.LoggingConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// showProgress reports whether progress bars should be drawn on stderr.
func showProgress() bool {
	return !quiet && term.IsTerminal(int(os.Stderr.Fd()))
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() *slog.Logger {
	return logger
}
