// Package commands implements the CLI commands for divarsearch.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/divarsearch/internal/config"
	"github.com/jmylchreest/divarsearch/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "divarsearch",
	Short: "Search Divar listings in plain language",
	Long: `divarsearch finds classified ads on Divar from a free-text request.

A language model turns the request into a short search phrase, a headless
browser scrolls through the city's result feed, and the model condenses
the scraped ads into a list of the relevant ones.

Examples:
  # Search in Tehran with the local Ollama model
  divarsearch search --city تهران --query "two bedroom apartment for rent"

  # Use a slug and OpenAI
  divarsearch search -c karaj -q "used bicycle" -p openai -m gpt-4o-mini

  # Serve the HTTP API
  divarsearch serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()

	// Global flags
	pf.String("config", "", "config file (default $HOME/"+config.ConfigName+".yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("quiet", false, "suppress progress output")
	pf.Bool("log-json", false, "log as JSON")

	// Text generation
	pf.StringP("provider", "p", "", "text-generation provider: ollama, openai, openrouter, anthropic, auto")
	pf.StringP("model", "m", "", "model name (provider-specific)")
	pf.StringP("api-key", "k", "", "API key (or use the provider's env var)")
	pf.String("base-url", "", "custom API base URL")
	pf.Float64("temperature", 0, "sampling temperature (default 0.3)")
	pf.Duration("llm-timeout", 0, "text-generation request timeout (default 2m)")

	// Scraping
	pf.String("site-url", "", "listing site base URL (default https://divar.ir)")
	pf.String("fetch-mode", "", "fetch mode: dynamic, static, auto (default dynamic)")
	pf.String("user-agent", "", "browser user agent")
	pf.Int("max-scrolls", 0, "maximum scrolls of the result feed (default 60)")
	pf.Duration("scroll-wait", 0, "max wait for the feed to grow after each scroll (default 2s)")
	pf.Duration("browser-timeout", 0, "overall browser timeout per search (default 5m)")
	pf.Bool("stealth", false, "hide headless browser markers")
	pf.String("chrome-path", "", "Chrome binary (looked up when empty)")
	pf.String("max-content-size", "", "max scraped text sent for summarizing (e.g. 100KB, 0=unlimited)")

	bindings := map[string]string{
		"config":           "config",
		"debug":            "debug",
		"quiet":            "quiet",
		"log_json":         "log-json",
		"provider":         "provider",
		"model":            "model",
		"api_key":          "api-key",
		"base_url":         "base-url",
		"temperature":      "temperature",
		"llm_timeout":      "llm-timeout",
		"site_url":         "site-url",
		"fetch_mode":       "fetch-mode",
		"user_agent":       "user-agent",
		"max_scrolls":      "max-scrolls",
		"scroll_wait":      "scroll-wait",
		"browser_timeout":  "browser-timeout",
		"stealth":          "stealth",
		"chrome_path":      "chrome-path",
		"max_content_size": "max-content-size",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(config.ConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// setup initializes logging from the global flags and loads the configuration.
func setup() (config.Config, error) {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
	return cfg, nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
