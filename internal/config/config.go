package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "DARKWEB_MONITOR_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	slackWebhookEnv = "SLACK_WEBHOOK_URL"
	targetsFileEnv  = "TARGETS_FILE"
	policyFileEnv   = "ALERT_CONFIG_FILE"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Monitor       MonitorConfig      `yaml:"monitor"`
	Dedup         DedupConfig        `yaml:"dedup"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MonitorConfig defines cycle cadence and the pipeline's config files. An
// empty PolicyFile disables the priority filter stage; the base pipeline is
// a valid terminal stage on its own.
type MonitorConfig struct {
	IntervalMinutes int    `yaml:"intervalMinutes"`
	TargetsFile     string `yaml:"targetsFile"`
	PolicyFile      string `yaml:"policyFile"`
}

// DedupConfig points at the flat files holding cross-cycle dedup state.
type DedupConfig struct {
	URLsFile   string `yaml:"urlsFile"`
	HashesFile string `yaml:"hashesFile"`
}

// DatabaseConfig describes the optional Postgres alert archive; an empty DSN
// disables archiving.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig wires the incoming-webhook endpoint; empty means console
// fallback.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// SourceConfig describes a single mention source with its collector
// strategy.
type SourceConfig struct {
	Name      string            `yaml:"name"`
	Collector string            `yaml:"collector"`
	Feeds     []FeedConfig      `yaml:"feeds"`
	Options   map[string]string `yaml:"options"`
}

// FeedConfig holds one concrete feed endpoint for the RSS collector.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
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

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Notifications.Slack.WebhookURL = v
	}

	if v := os.Getenv(targetsFileEnv); v != "" {
		c.Monitor.TargetsFile = v
	}

	if v := os.Getenv(policyFileEnv); v != "" {
		c.Monitor.PolicyFile = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Monitor.IntervalMinutes > 0 {
		base.Monitor.IntervalMinutes = override.Monitor.IntervalMinutes
	}
	if override.Monitor.TargetsFile != "" {
		base.Monitor.TargetsFile = override.Monitor.TargetsFile
	}
	if override.Monitor.PolicyFile != "" {
		base.Monitor.PolicyFile = override.Monitor.PolicyFile
	}

	if override.Dedup.URLsFile != "" {
		base.Dedup.URLsFile = override.Dedup.URLsFile
	}
	if override.Dedup.HashesFile != "" {
		base.Dedup.HashesFile = override.Dedup.HashesFile
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Slack.WebhookURL != "" {
		base.Notifications.Slack.WebhookURL = override.Notifications.Slack.WebhookURL
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Monitor: MonitorConfig{
			IntervalMinutes: 3,
			TargetsFile:     "config/targets.json",
			PolicyFile:      "",
		},
		Dedup: DedupConfig{
			URLsFile:   "processed_urls.txt",
			HashesFile: "processed_hashes.txt",
		},
		Database:      DatabaseConfig{DSN: ""},
		Notifications: NotificationConfig{Slack: SlackConfig{WebhookURL: ""}},
		Sources: []SourceConfig{
			{
				Name:      "security-rss",
				Collector: "rss",
				Feeds: []FeedConfig{
					{Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/", Category: "security_news"},
					{Name: "The Hacker News", URL: "https://feeds.feedburner.com/TheHackersNews", Category: "security_news"},
					{Name: "DataBreaches", URL: "https://www.databreaches.net/feed/", Category: "breach_news"},
					{Name: "HIBP Latest Breaches", URL: "https://feeds.feedburner.com/HaveIBeenPwnedLatestBreaches", Category: "breach_alerts"},
				},
			},
			{
				Name:      "Ahmia",
				Collector: "onionsearch",
				Options: map[string]string{
					"endpoint": "https://ahmia.fi/search/",
					"limit":    "50",
				},
			},
		},
	}
}
