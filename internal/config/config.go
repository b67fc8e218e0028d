package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"EditalScanner/internal/domain"
)

const (
	defaultTimezone       = "UTC"
	defaultFallbackPrefix = 3000

	configPathEnv     = "EDITAL_SCANNER_CONFIG"
	catalogPathEnv    = "EDITAL_CATALOG_PATH"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	webhookURLEnv     = "DOU_WEBHOOK_URL"
	textractURLEnv    = "TEXTRACT_URL"
	textractAPIKeyEnv = "TEXTRACT_API_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Catalog       CatalogConfig      `yaml:"catalog"`
	Data          DataConfig         `yaml:"data"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Scan          ScanConfig         `yaml:"scan"`
	Extraction    ExtractionConfig   `yaml:"extraction"`
	Review        ReviewConfig       `yaml:"review"`
	Whitelists    WhitelistConfig    `yaml:"whitelists"`
	Notifications NotificationConfig `yaml:"notifications"`
	Textract      TextractConfig     `yaml:"textract"`
	Logging       LoggingConfig      `yaml:"logging"`
	Gazettes      []GazetteConfig    `yaml:"gazettes"`
}

// CatalogConfig describes the notice-catalog database location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// DataConfig groups the on-disk layout for summaries and review data.
type DataConfig struct {
	SummariesDir string `yaml:"summariesDir"`
	BackupsDir   string `yaml:"backupsDir"`
	ExamplesDir  string `yaml:"examplesDir"`
	ReviewsDir   string `yaml:"reviewsDir"`
}

// SchedulerConfig defines when the scanner should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ScanConfig bounds the publication window of each run.
type ScanConfig struct {
	LookbackDays int `yaml:"lookbackDays"`
}

// ExtractionConfig tunes the summary extraction heuristics.
type ExtractionConfig struct {
	// FallbackPrefixBytes bounds how much of the document whitelist
	// fallback scans cover. Explicit zero scans the whole text; unset
	// uses the built-in default.
	FallbackPrefixBytes *int `yaml:"fallbackPrefixBytes"`
}

// FallbackPrefix returns the configured prefix bound in bytes.
func (e ExtractionConfig) FallbackPrefix() int {
	if e.FallbackPrefixBytes == nil {
		return defaultFallbackPrefix
	}
	return *e.FallbackPrefixBytes
}

// ReviewConfig controls which summaries land in review exports.
type ReviewConfig struct {
	// MaxConfidence keeps only summaries below the given grade in the
	// export. Empty exports everything.
	MaxConfidence domain.Confidence `yaml:"maxConfidence"`
}

// WhitelistConfig points at the learned vocabulary files.
type WhitelistConfig struct {
	BoardsPath     string `yaml:"boardsPath"`
	JobTitlesPath  string `yaml:"jobTitlesPath"`
	LearnThreshold int    `yaml:"learnThreshold"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	// Threshold is the minimum number of new notices per run that
	// triggers a digest.
	Threshold int            `yaml:"threshold"`
	Telegram  TelegramConfig `yaml:"telegram"`
	Webhook   WebhookConfig  `yaml:"webhook"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// WebhookConfig describes a plain-text POST notification target.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// TextractConfig selects where notice text comes from when the gazette
// page itself is not scraped: a remote extraction service or a local
// directory of text files.
type TextractConfig struct {
	ServiceURL string `yaml:"serviceUrl"`
	APIKey     string `yaml:"apiKey"`
	TextDir    string `yaml:"textDir"`
}

// LoggingConfig tunes the application logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GazetteConfig describes a single gazette with its scanner strategy.
type GazetteConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Query    string            `yaml:"query"`
	Sections []string          `yaml:"sections"`
	Keywords []string          `yaml:"keywords"`
	Options  map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the EDITAL_SCANNER_CONFIG
// environment variable.
func Load(path string) Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Gazettes) == 0 {
		cfg.Gazettes = defaultConfig().Gazettes
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(catalogPathEnv); v != "" {
		c.Catalog.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifications.Webhook.URL = v
	}

	if v := os.Getenv(textractURLEnv); v != "" {
		c.Textract.ServiceURL = v
	}
	if v := os.Getenv(textractAPIKeyEnv); v != "" {
		c.Textract.APIKey = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Catalog.Path != "" {
		base.Catalog = override.Catalog
	}

	if override.Data.SummariesDir != "" {
		base.Data.SummariesDir = override.Data.SummariesDir
	}
	if override.Data.BackupsDir != "" {
		base.Data.BackupsDir = override.Data.BackupsDir
	}
	if override.Data.ExamplesDir != "" {
		base.Data.ExamplesDir = override.Data.ExamplesDir
	}
	if override.Data.ReviewsDir != "" {
		base.Data.ReviewsDir = override.Data.ReviewsDir
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Scan.LookbackDays > 0 {
		base.Scan.LookbackDays = override.Scan.LookbackDays
	}

	if override.Extraction.FallbackPrefixBytes != nil {
		base.Extraction.FallbackPrefixBytes = override.Extraction.FallbackPrefixBytes
	}

	if override.Review.MaxConfidence != "" {
		base.Review.MaxConfidence = override.Review.MaxConfidence
	}

	if override.Whitelists.BoardsPath != "" {
		base.Whitelists.BoardsPath = override.Whitelists.BoardsPath
	}
	if override.Whitelists.JobTitlesPath != "" {
		base.Whitelists.JobTitlesPath = override.Whitelists.JobTitlesPath
	}
	if override.Whitelists.LearnThreshold > 0 {
		base.Whitelists.LearnThreshold = override.Whitelists.LearnThreshold
	}

	if override.Notifications.Threshold > 0 {
		base.Notifications.Threshold = override.Notifications.Threshold
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Webhook.URL != "" {
		base.Notifications.Webhook.URL = override.Notifications.Webhook.URL
	}

	if override.Textract.ServiceURL != "" {
		base.Textract.ServiceURL = override.Textract.ServiceURL
	}
	if override.Textract.APIKey != "" {
		base.Textract.APIKey = override.Textract.APIKey
	}
	if override.Textract.TextDir != "" {
		base.Textract.TextDir = override.Textract.TextDir
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Gazettes) > 0 {
		base.Gazettes = override.Gazettes
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Catalog: CatalogConfig{Path: "data/catalog.db"},
		Data: DataConfig{
			SummariesDir: "data/summaries",
			BackupsDir:   "data/backups",
			ExamplesDir:  "data/training",
			ReviewsDir:   "data/reviews",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Scan:      ScanConfig{LookbackDays: 7},
		Whitelists: WhitelistConfig{
			BoardsPath:     "data/whitelists/boards.json",
			JobTitlesPath:  "data/whitelists/job_titles.json",
			LearnThreshold: 3,
		},
		Notifications: NotificationConfig{Threshold: 1},
		Logging:       LoggingConfig{Level: "info"},
		Gazettes: []GazetteConfig{
			{
				Name:     "dou",
				Scanner:  "dou",
				Query:    "concurso",
				Sections: []string{"do3"},
				Keywords: []string{"abertura", "início", "iniciado"},
			},
		},
	}
}
