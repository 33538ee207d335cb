package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/PsiACE/psiace/internal/config"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    zerolog.Logger
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "psiace",
	Short: "Builds the psiace.me blog and portfolio",
	Long: `psiace turns the Markdown posts and slides under ./content into a static
site: pages, an RSS feed for slides, client-side mermaid diagrams and
giscus comments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("drafts", false, "include draft entries")
	_ = v.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("drafts", rootCmd.PersistentFlags().Lookup("drafts"))
}

func initializeConfig(_ *cobra.Command) error {
	cfg, used, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	if used != "" {
		logger.Info().Str("file", used).Msg("using config file")
	} else {
		logger.Info().Msg("no config file found, using defaults and environment")
	}
	return nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
