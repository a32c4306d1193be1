package config

import (
	"slices"
	"strings"
	"time"
)

type GlobalConfig struct {
	InterfaceLanguage string `koanf:"interface_language"`
}

type TelegramConfig struct {
	Token        string  `koanf:"token"`
	AllowedUsers []int64 `koanf:"allowed_users"`
	WebhookURL   string  `koanf:"webhook_url"`
	ListenAddr   string  `koanf:"listen_addr"`
}

// IsUserAllowed reports whether the user is on the allow-list.
// An empty allow-list admits nobody.
func (c TelegramConfig) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return false
	}
	return slices.Contains(c.AllowedUsers, userID)
}

func (c TelegramConfig) UseWebhook() bool {
	return c.WebhookURL != ""
}

type AIConfig struct {
	APIKey             string        `koanf:"api_key"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	PolicyStopsCascade bool          `koanf:"policy_stops_cascade"`
	ThinkingBudget     int32         `koanf:"thinking_budget"`

	cascades map[string][]string
}

// Cascade returns the ordered model list for a tier ("pro"/"flash") and
// capability ("text"/"image"/"transcribe"). An unknown tier falls back to
// flash; an empty transcribe cascade falls back to the tier's text cascade.
// Both image generation and image editing resolve to the "image" cascade.
func (c AIConfig) Cascade(tier, capability string) []string {
	tier = strings.ToLower(tier)
	if tier != "pro" {
		tier = "flash"
	}
	switch capability {
	case "image_generate", "image_edit":
		capability = "image"
	}
	models := c.cascades[tier+"."+capability]
	if len(models) == 0 && capability == "transcribe" {
		models = c.cascades[tier+".text"]
	}
	return models
}

type StorageConfig struct {
	URL        string        `koanf:"url"`
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// Backend selects the session store implementation from the URL: empty
// means in-process memory, redis:// a shared redis, anything else a
// sqlite DSN.
func (c StorageConfig) Backend() string {
	switch {
	case c.URL == "":
		return "memory"
	case strings.HasPrefix(c.URL, "redis://"), strings.HasPrefix(c.URL, "rediss://"):
		return "redis"
	default:
		return "sqlite"
	}
}

type queueThrottleOptions struct {
	Requests int
	Period   time.Duration
}

type QueueConfig struct {
	Buffer   int
	Throttle queueThrottleOptions
}

type LoggingConfig struct {
	LogLevel    string `koanf:"level"`
	WriteInFile bool   `koanf:"write_in_file"`
	FilePath    string `koanf:"file_path"`
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}
