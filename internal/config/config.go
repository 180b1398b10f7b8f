// Load envs from .env
// Load YAML config
// Apply env overrides and defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	URL        string   `yaml:"url" validate:"required,url"`
	UserName   string   `yaml:"user_name" validate:"required"`
	Password   string   `yaml:"password" validate:"required"`
	UserAgents []string `yaml:"user_agents"`
	KeyWords   []string `yaml:"key_words" validate:"min=1,dive,required"`
	Letter     string   `yaml:"letter" validate:"required"`

	//Form answers
	Citizenship string `yaml:"citizenship" validate:"required"`

	//Matching
	ExcludeWords   []string `yaml:"exclude_words"`
	FoldDiacritics bool     `yaml:"fold_diacritics"`

	//Stops before the final submit when set
	DryRun bool `yaml:"dry_run"`

	Browser   BrowserConfig   `yaml:"browser"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Pacing    PacingConfig    `yaml:"pacing"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Selectors Selectors       `yaml:"selectors"`
	History   HistoryConfig   `yaml:"history"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Log       LogConfig       `yaml:"log"`

	//Per-run JSON report of every application attempt; empty disables it
	ReportDir string `yaml:"report_dir"`

	RunTimeout    time.Duration `yaml:"run_timeout" validate:"gte=0"`
	TeardownDelay time.Duration `yaml:"teardown_delay" validate:"gte=0"`
}

type BrowserConfig struct {
	Headless      bool          `yaml:"headless"`
	SlowMo        time.Duration `yaml:"slow_mo"`
	CookiesFile   string        `yaml:"cookies_file"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

type TimeoutsConfig struct {
	Navigation time.Duration `yaml:"navigation" validate:"gt=0"`
	Element    time.Duration `yaml:"element" validate:"gt=0"`
	NavLink    time.Duration `yaml:"nav_link" validate:"gt=0"`
	NextPage   time.Duration `yaml:"next_page" validate:"gt=0"`
}

type ScrollConfig struct {
	Step     int           `yaml:"step" validate:"gt=0"`
	MinPause time.Duration `yaml:"min_pause" validate:"gte=0"`
	MaxPause time.Duration `yaml:"max_pause" validate:"gtefield=MinPause"`
	MaxSteps int           `yaml:"max_steps" validate:"gt=0"`
}

type PacingConfig struct {
	// nil means enabled; human pauses are on unless explicitly turned off
	Enabled  *bool         `yaml:"enabled"`
	KeyDelay time.Duration `yaml:"key_delay" validate:"gte=0"`
}

type DiscoveryConfig struct {
	// 0 means no cap
	MaxPages int `yaml:"max_pages" validate:"gte=0"`
}

type HistoryConfig struct {
	Backend     string        `yaml:"backend" validate:"oneof=none file postgres"`
	Path        string        `yaml:"path"`
	DatabaseURL string        `yaml:"database_url" validate:"required_if=Backend postgres"`
	Retention   time.Duration `yaml:"retention" validate:"gte=0"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id" validate:"required_with=Token"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// PacingEnabled reports whether human-like pauses should be applied.
func (c *Config) PacingEnabled() bool {
	return c.Pacing.Enabled == nil || *c.Pacing.Enabled
}

// Load reads .env, the YAML file at path, env overrides and defaults, then validates.
// A missing YAML file is not an error as long as the env provides the required fields.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		//fall through to env only
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JOB_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("JOB_USER_NAME"); v != "" {
		c.UserName = v
	}
	if v := os.Getenv("JOB_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.History.DatabaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Timeouts.Navigation == 0 {
		c.Timeouts.Navigation = 30 * time.Second
	}
	if c.Timeouts.Element == 0 {
		c.Timeouts.Element = 10 * time.Second
	}
	if c.Timeouts.NavLink == 0 {
		c.Timeouts.NavLink = 20 * time.Second
	}
	if c.Timeouts.NextPage == 0 {
		c.Timeouts.NextPage = 20 * time.Second
	}

	if c.Scroll.Step == 0 {
		c.Scroll.Step = 300
	}
	if c.Scroll.MinPause == 0 && c.Scroll.MaxPause == 0 {
		c.Scroll.MinPause = 500 * time.Millisecond
		c.Scroll.MaxPause = 1500 * time.Millisecond
	}
	if c.Scroll.MaxSteps == 0 {
		c.Scroll.MaxSteps = 200
	}

	if c.Pacing.KeyDelay == 0 {
		c.Pacing.KeyDelay = 100 * time.Millisecond
	}

	if c.History.Backend == "" {
		c.History.Backend = "none"
	}
	if c.History.Path == "" {
		c.History.Path = ".cache"
	}
	if c.History.Retention == 0 {
		c.History.Retention = 30 * 24 * time.Hour
	}

	if c.Browser.ScreenshotDir == "" {
		c.Browser.ScreenshotDir = "logs/screenshots"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	c.Selectors.applyDefaults()
}

// Validate checks struct constraints; the error lists every failing field.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Errorf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
