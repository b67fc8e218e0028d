package config

import (
	"os"
	"path/filepath"
	"testing"

	"EditalScanner/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDITAL_SCANNER_CONFIG", "")
	t.Setenv("EDITAL_CATALOG_PATH", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg := Load("")

	if cfg.Catalog.Path != "data/catalog.db" {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
	if cfg.Scan.LookbackDays != 7 {
		t.Fatalf("unexpected lookback: %d", cfg.Scan.LookbackDays)
	}
	if cfg.Extraction.FallbackPrefix() != 3000 {
		t.Fatalf("unexpected fallback prefix: %d", cfg.Extraction.FallbackPrefix())
	}
	if cfg.Whitelists.LearnThreshold != 3 {
		t.Fatalf("unexpected learn threshold: %d", cfg.Whitelists.LearnThreshold)
	}
	if len(cfg.Gazettes) != 1 || cfg.Gazettes[0].Scanner != "dou" {
		t.Fatalf("unexpected gazettes: %+v", cfg.Gazettes)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: /var/lib/editais/catalog.db
scan:
  lookbackDays: 3
scheduler:
  cronExpression: "30 7 * * *"
  timezone: America/Sao_Paulo
extraction:
  fallbackPrefixBytes: 0
review:
  maxConfidence: medium
notifications:
  threshold: 2
  webhook:
    url: https://hooks.example.org/dou
gazettes:
  - name: dou-do1
    scanner: dou
    query: "concurso público"
    sections: [do1, do3]
    keywords: [abertura]
`)
	t.Setenv("EDITAL_CATALOG_PATH", "")
	t.Setenv("DOU_WEBHOOK_URL", "")

	cfg := Load(path)

	if cfg.Catalog.Path != "/var/lib/editais/catalog.db" {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
	if cfg.Scan.LookbackDays != 3 {
		t.Fatalf("unexpected lookback: %d", cfg.Scan.LookbackDays)
	}
	if cfg.Scheduler.CronExpression != "30 7 * * *" {
		t.Fatalf("unexpected cron: %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "America/Sao_Paulo" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
	if cfg.Extraction.FallbackPrefix() != 0 {
		t.Fatalf("explicit zero prefix was not kept: %d", cfg.Extraction.FallbackPrefix())
	}
	if cfg.Review.MaxConfidence != domain.ConfidenceMedium {
		t.Fatalf("unexpected review cutoff: %q", cfg.Review.MaxConfidence)
	}
	if cfg.Notifications.Threshold != 2 {
		t.Fatalf("unexpected notify threshold: %d", cfg.Notifications.Threshold)
	}
	if cfg.Notifications.Webhook.URL != "https://hooks.example.org/dou" {
		t.Fatalf("unexpected webhook: %q", cfg.Notifications.Webhook.URL)
	}
	if len(cfg.Gazettes) != 1 || len(cfg.Gazettes[0].Sections) != 2 {
		t.Fatalf("unexpected gazettes: %+v", cfg.Gazettes)
	}

	// Untouched sections keep their defaults.
	if cfg.Data.SummariesDir != "data/summaries" {
		t.Fatalf("unexpected summaries dir: %q", cfg.Data.SummariesDir)
	}
	if cfg.Whitelists.BoardsPath != "data/whitelists/boards.json" {
		t.Fatalf("unexpected boards path: %q", cfg.Whitelists.BoardsPath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: /from/file.db
notifications:
  telegram:
    botToken: file-token
    chatId: "1"
`)
	t.Setenv("EDITAL_CATALOG_PATH", "/from/env.db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("TEXTRACT_URL", "https://textract.example.org")

	cfg := Load(path)

	if cfg.Catalog.Path != "/from/env.db" {
		t.Fatalf("env override lost: %q", cfg.Catalog.Path)
	}
	if cfg.Notifications.Telegram.BotToken != "env-token" || cfg.Notifications.Telegram.ChatID != "42" {
		t.Fatalf("unexpected telegram config: %+v", cfg.Notifications.Telegram)
	}
	if cfg.Textract.ServiceURL != "https://textract.example.org" {
		t.Fatalf("unexpected textract url: %q", cfg.Textract.ServiceURL)
	}
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "scan:\n  lookbackDays: 14\n")
	t.Setenv("EDITAL_SCANNER_CONFIG", path)

	cfg := Load("")

	if cfg.Scan.LookbackDays != 14 {
		t.Fatalf("config path env was ignored: %d", cfg.Scan.LookbackDays)
	}
}

func TestLoadUnknownTimezone(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  timezone: Mars/Olympus\n")

	cfg := Load(path)

	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unknown timezone did not revert: %s", cfg.Scheduler.Location())
	}
}
