package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/converter/internal/bridge"
	"github.com/lehigh-university-libraries/converter/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is shared by every subcommand once PersistentPreRunE has run.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	v   *viper.Viper
	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "converter",
		Short: "Convert images to PDF and PDFs or LaTeX sources to study guides",
		Long: `Converter assembles PNG and WEBP images into an A4 PDF, one image per page,
and turns a PDF or .tex document into LaTeX using a generative model.

It can run as a web server or directly from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./converter.yaml or ~/.config/converter/converter.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	flags.String("provider", "", "Model provider ("+strings.Join(bridge.Providers, ", ")+")")
	flags.String("model", "", "Model name (defaults to the provider's default)")
	flags.Float64("temperature", 0, "Sampling temperature")
	flags.String("language", "", "Instruction and message language (en, vi)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newImagesCmd(a))
	cmd.AddCommand(newDocumentCmd(a, bridge.FeatureLatex))
	cmd.AddCommand(newDocumentCmd(a, bridge.FeatureSolver))
	cmd.AddCommand(newHistoryCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if err := setupLogging(a.logLevel, a.logFormat); err != nil {
		return err
	}

	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	for _, key := range []string{"provider", "model", "temperature", "language"} {
		if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		v.Set("server.port", f.Value.String())
	}
	if path := v.ConfigFileUsed(); path != "" {
		slog.Debug("Using config file", "path", path)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg
	return nil
}

func (a *app) newBridge() (*bridge.Service, error) {
	provider, err := bridge.NewProvider(a.cfg.Provider)
	if err != nil {
		return nil, err
	}
	return bridge.NewService(provider, a.cfg.Model, a.cfg.Temperature), nil
}

func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q (supported: text, json)", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
