package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iksnae/tona/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose        bool
	configPath     string
	envFile        string
	serverURL      string
	statsServerURL string
	messageLimit   int
	pageFile       string
	pageURL        string
	browserURL     string
	pageMatch      string
	version        string = "dev"
	commit         string = "unknown"
	date           string = "unknown"
)

// cfg is resolved once per invocation in PersistentPreRunE
var cfg = internal.DefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tona",
	Short: "Analyze the tone of a web chat and suggest replies",
	Long: `tona reads the chat you have open in your browser, extracts the visible
messages and asks the analysis servers how the conversation is going.

The chat page can be read from a live Chrome tab over the DevTools protocol,
a saved HTML file, or a URL.

Quick Start:
  tona extract --file chat.html               # Print the extracted messages
  tona analyze --browser launch               # Suggest replies for the open chat
  tona watch --browser ws://127.0.0.1:9222/... --tui
  tona healthcheck                            # Check the analysis servers`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		internal.SetVerbose(verbose || cfg.DebugMode)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

// loadEnvFile loads KEY=VALUE pairs into the environment. The default
// .env file is optional; an explicitly named one must exist.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	internal.LogDebug("Loaded environment from %s", path)
	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config
func applyFlagOverrides(cmd *cobra.Command, c *internal.Config) {
	flags := cmd.Flags()
	if flags.Changed("server-url") {
		c.ServerURL = serverURL
	}
	if flags.Changed("stats-url") {
		c.StatsServerURL = statsServerURL
	}
	if flags.Changed("limit") {
		c.MessageLimit = messageLimit
	}

	// A source flag replaces whatever source the config file named.
	if flags.Changed("file") || flags.Changed("url") || flags.Changed("browser") {
		c.Source.File, c.Source.URL, c.Source.Browser = pageFile, pageURL, browserURL
	}
	if flags.Changed("page-match") {
		c.Source.PageMatch = pageMatch
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&envFile, "env-file", "", "Load environment variables from this file (default .env if present)")
	flags.StringVar(&serverURL, "server-url", internal.DefaultServerURL, "Reply suggestion server URL")
	flags.StringVar(&statsServerURL, "stats-url", internal.DefaultStatsServerURL, "Statistics server URL")
	flags.IntVar(&messageLimit, "limit", internal.DefaultMessageLimit, "Maximum number of recent messages to extract")

	flags.StringVar(&pageFile, "file", "", "Read the chat page from a saved HTML file")
	flags.StringVar(&pageURL, "url", "", "Read the chat page from a URL")
	flags.StringVar(&browserURL, "browser", "", `Read the chat page from Chrome (DevTools websocket URL, or "launch")`)
	flags.StringVar(&pageMatch, "page-match", "web.whatsapp.com", "Substring of the browser tab URL to read")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
