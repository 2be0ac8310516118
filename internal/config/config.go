// Package config loads runtime settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/divarsearch/internal/llm"
	"github.com/jmylchreest/divarsearch/internal/scraper"
)

// EnvPrefix is prepended to every environment variable, e.g. DIVARSEARCH_MODEL.
const EnvPrefix = "DIVARSEARCH"

// ConfigName is the config file name looked up in $HOME and the working directory.
const ConfigName = ".divarsearch"

// Config is the full runtime configuration.
type Config struct {
	// Text generation
	Provider    string        `mapstructure:"provider" validate:"required,oneof=auto ollama openai openrouter anthropic"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	LLMTimeout  time.Duration `mapstructure:"llm_timeout" validate:"gt=0"`

	// Scraping
	SiteURL        string        `mapstructure:"site_url" validate:"required,url"`
	FetchMode      string        `mapstructure:"fetch_mode" validate:"oneof=dynamic static auto"`
	UserAgent      string        `mapstructure:"user_agent"`
	MaxScrolls     int           `mapstructure:"max_scrolls" validate:"gte=0,lte=1000"`
	InitialWait    time.Duration `mapstructure:"initial_wait" validate:"gte=0"`
	ScrollWait     time.Duration `mapstructure:"scroll_wait" validate:"gte=0"`
	PollInterval   time.Duration `mapstructure:"poll_interval" validate:"gte=0"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout" validate:"gt=0"`
	Stealth        bool          `mapstructure:"stealth"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	ChromePath     string        `mapstructure:"chrome_path"`

	// Summarization
	MaxContentSize string `mapstructure:"max_content_size"`

	// Output and serving
	Format string `mapstructure:"format" validate:"oneof=text json jsonl yaml"`
	Addr   string `mapstructure:"addr" validate:"required"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	sc := scraper.DefaultConfig()

	v.SetDefault("provider", "ollama")
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("temperature", 0.3)
	v.SetDefault("llm_timeout", llm.DefaultProviderConfig().Timeout)

	v.SetDefault("site_url", sc.BaseURL)
	v.SetDefault("fetch_mode", string(scraper.FetchModeDynamic))
	v.SetDefault("user_agent", sc.UserAgent)
	v.SetDefault("max_scrolls", sc.MaxScrolls)
	v.SetDefault("initial_wait", sc.InitialWait)
	v.SetDefault("scroll_wait", sc.ScrollWait)
	v.SetDefault("poll_interval", sc.PollInterval)
	v.SetDefault("browser_timeout", sc.Timeout)
	v.SetDefault("stealth", false)
	v.SetDefault("accept_language", sc.AcceptLanguage)
	v.SetDefault("chrome_path", "")

	v.SetDefault("max_content_size", "0")

	v.SetDefault("format", "text")
	v.SetDefault("addr", ":8080")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.MaxContentBytes(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MaxContentBytes parses MaxContentSize ("100KB", "1MB", "0" = unlimited).
func (c Config) MaxContentBytes() (int, error) {
	s := strings.TrimSpace(c.MaxContentSize)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("max_content_size %q: %w", s, err)
	}
	return int(n), nil
}

// ProviderName resolves "auto" to a provider detected from the environment.
func (c Config) ProviderName() string {
	if c.Provider == "auto" {
		name, _ := llm.DetectProvider()
		return name
	}
	return c.Provider
}

// ProviderConfig returns the settings for the text-generation client. A
// missing API key is taken from the provider's usual environment variable.
func (c Config) ProviderConfig() llm.ProviderConfig {
	key := c.APIKey
	if key == "" {
		key = llm.APIKeyFromEnv(c.ProviderName())
	}
	return llm.ProviderConfig{
		APIKey:  key,
		BaseURL: c.BaseURL,
		Model:   c.Model,
		Timeout: c.LLMTimeout,
	}
}

// ScraperConfig returns the settings for the listing loaders.
func (c Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		BaseURL:        c.SiteURL,
		UserAgent:      c.UserAgent,
		AcceptLanguage: c.AcceptLanguage,
		Timeout:        c.BrowserTimeout,
		InitialWait:    c.InitialWait,
		ScrollWait:     c.ScrollWait,
		PollInterval:   c.PollInterval,
		MaxScrolls:     c.MaxScrolls,
		Stealth:        c.Stealth,
		ExecPath:       c.ChromePath,
	}
}
