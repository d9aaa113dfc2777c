package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	defaultRefreshSchedule     = "*/2 * * * *"
	defaultMinRefreshGap       = 10
	defaultMaxCardsPerSection  = 10
	defaultDetailsBaseURL      = "detalhes.html"
	maxCardsPerSectionLimit    = 40
	minExternalHTTPTimeoutSecs = 5
)

type Config struct {
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`

	SheetURL     string `yaml:"sheet_url"`
	StatusAPIURL string `yaml:"status_api_url"`
	AdminEmail   string `yaml:"admin_email"`

	DetailsBaseURL          string `yaml:"details_base_url"`
	BoardMaxCardsPerSection int    `yaml:"board_max_cards_per_section"`

	ReportChannelID            string `yaml:"report_channel_id"`
	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`

	ManagerSlackIDs      []string `yaml:"manager_slack_ids"`
	RefreshSchedule      string   `yaml:"refresh_schedule"`
	MinRefreshGapSeconds int      `yaml:"min_refresh_gap_seconds"`
	DigestTime           string   `yaml:"digest_time"`
	DigestWeekdaysOnly   bool     `yaml:"digest_weekdays_only"`
	Timezone             string   `yaml:"timezone"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.SheetURL, "SHEET_URL")
	envOverrideAllowEmpty(&cfg.StatusAPIURL, "STATUS_API_URL")
	envOverride(&cfg.AdminEmail, "ADMIN_EMAIL")
	envOverride(&cfg.DetailsBaseURL, "DETAILS_BASE_URL")
	envOverrideInt(&cfg.BoardMaxCardsPerSection, "BOARD_MAX_CARDS_PER_SECTION")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverrideInt(&cfg.MinRefreshGapSeconds, "MIN_REFRESH_GAP_SECONDS")
	envOverrideAllowEmpty(&cfg.DigestTime, "DIGEST_TIME")
	envOverrideBool(&cfg.DigestWeekdaysOnly, "DIGEST_WEEKDAYS_ONLY")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if ids := os.Getenv("MANAGER_SLACK_IDS"); ids != "" {
		cfg.ManagerSlackIDs = nil
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				cfg.ManagerSlackIDs = append(cfg.ManagerSlackIDs, id)
			}
		}
	}

	if cfg.DetailsBaseURL == "" {
		cfg.DetailsBaseURL = defaultDetailsBaseURL
	}
	if cfg.BoardMaxCardsPerSection == 0 {
		cfg.BoardMaxCardsPerSection = defaultMaxCardsPerSection
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = defaultRefreshSchedule
	}
	if cfg.MinRefreshGapSeconds == 0 {
		cfg.MinRefreshGapSeconds = defaultMinRefreshGap
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	required := map[string]string{
		"slack_bot_token": cfg.SlackBotToken,
		"slack_app_token": cfg.SlackAppToken,
		"sheet_url":       cfg.SheetURL,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	if err := validateHTTPURL(cfg.SheetURL); err != nil {
		log.Fatalf("invalid sheet_url '%s': %v", cfg.SheetURL, err)
	}
	if cfg.StatusAPIURL != "" {
		if err := validateHTTPURL(cfg.StatusAPIURL); err != nil {
			log.Fatalf("invalid status_api_url '%s': %v", cfg.StatusAPIURL, err)
		}
		if strings.TrimSpace(cfg.AdminEmail) == "" {
			log.Fatalf("admin_email is required when status_api_url is set")
		}
		if len(cfg.ManagerSlackIDs) == 0 {
			log.Printf("WARNING: status_api_url is set but manager_slack_ids is empty. Nobody can update ticket status.")
		}
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if _, err := ParseSchedule(cfg.RefreshSchedule); err != nil {
		log.Fatalf("invalid refresh_schedule '%s': %v", cfg.RefreshSchedule, err)
	}
	if cfg.DigestTime != "" {
		if _, _, err := ParseClock(cfg.DigestTime); err != nil {
			log.Fatalf("invalid digest_time '%s': %v", cfg.DigestTime, err)
		}
	}
	if cfg.MinRefreshGapSeconds < 0 {
		log.Fatalf("invalid min_refresh_gap_seconds '%d': must be >= 0", cfg.MinRefreshGapSeconds)
	}
	if cfg.BoardMaxCardsPerSection < 1 || cfg.BoardMaxCardsPerSection > maxCardsPerSectionLimit {
		log.Fatalf("invalid board_max_cards_per_section '%d': must be between 1 and %d", cfg.BoardMaxCardsPerSection, maxCardsPerSectionLimit)
	}
	if cfg.ExternalHTTPTimeoutSeconds < minExternalHTTPTimeoutSecs {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= %d", cfg.ExternalHTTPTimeoutSeconds, minExternalHTTPTimeoutSecs)
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}

func (c Config) IsManagerID(userID string) bool {
	for _, id := range c.ManagerSlackIDs {
		if strings.TrimSpace(id) == userID {
			return true
		}
	}
	return false
}

func (c Config) StatusUpdatesEnabled() bool {
	return c.StatusAPIURL != "" && c.AdminEmail != ""
}

func (c Config) DigestEnabled() bool {
	return c.DigestTime != "" && c.ReportChannelID != ""
}

func (c Config) MinRefreshGap() time.Duration {
	return time.Duration(c.MinRefreshGapSeconds) * time.Second
}

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(strings.TrimSpace(spec))
}

func ParseClock(s string) (int, int, error) {
	var hour, min int
	_, err := fmt.Sscanf(s, "%d:%d", &hour, &min)
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("time out of range: %02d:%02d", hour, min)
	}
	return hour, min, nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
