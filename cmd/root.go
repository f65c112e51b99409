package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moabtools/moab-apis/config"
	"github.com/moabtools/moab-apis/serppro"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *serppro.Client

	// Command flags
	filterExpr string
	preset     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moab-apis",
	Short: "A CLI for the SerpPro SEO-data API",
	Long: `moab-apis queries the SerpPro API for Yandex Wordstat keyword data
(frequency, deep associations, historical trends), region database lookups
for Yandex and Google, and usage statistics.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information for the root command
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create SerpPro client
	opts := []serppro.Option{
		serppro.WithProfile(serppro.Profile(cfg.API.Profile)),
	}
	if cfg.API.Insecure {
		opts = append(opts, serppro.WithInsecureSkipVerify())
	}
	if cfg.API.TimeoutSeconds > 0 {
		opts = append(opts, serppro.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	}
	if cfg.API.MaxAttempts > 0 {
		opts = append(opts, serppro.WithMaxAttempts(cfg.API.MaxAttempts))
	}

	client, err = serppro.NewClient(cfg.API.BaseURL, cfg.API.Key, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SerpPro client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// getFilterExpression resolves the --filter/--preset flags into one expression.
func getFilterExpression() (string, error) {
	if filterExpr != "" && preset != "" {
		return "", fmt.Errorf("--filter and --preset are mutually exclusive")
	}

	if preset != "" {
		expr, ok := cfg.Filter[preset]
		if !ok {
			return "", fmt.Errorf("preset %q not found in config", preset)
		}
		return expr, nil
	}

	return filterExpr, nil
}
