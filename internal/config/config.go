package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	GLOBAL_LANGUAGE          = "global.interface_language"
	TELEGRAM_TOKEN           = "telegram.token"
	TELEGRAM_ALLOWED_USERS   = "telegram.allowed_users"
	TELEGRAM_WEBHOOK_URL     = "telegram.webhook_url"
	TELEGRAM_LISTEN_ADDR     = "telegram.listen_addr"
	AI_API_KEY               = "ai.api_key"
	AI_REQUEST_TIMEOUT       = "ai.request_timeout"
	AI_POLICY_STOPS_CASCADE  = "ai.policy_stops_cascade"
	AI_THINKING_BUDGET       = "ai.thinking_budget"
	STORAGE_URL              = "storage.url"
	STORAGE_SESSION_TTL      = "storage.session_ttl"
	QUEUE_BUFFER             = "queue.buffer"
	QUEUE_THROTTLE_REQUESTS  = "queue.throttle_requests"
	QUEUE_THROTTLE_PERIOD    = "queue.throttle_period"
	LOGGING_LEVEL            = "logging.level"
	LOGGING_WRITE_IN_FILE    = "logging.write_in_file"
	LOGGING_FILE_PATH        = "logging.file_path"
)

type Config struct {
	k *koanf.Koanf
}

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		GLOBAL_LANGUAGE:         "en",
		TELEGRAM_TOKEN:          "",
		TELEGRAM_WEBHOOK_URL:    "",
		TELEGRAM_LISTEN_ADDR:    ":8080",
		AI_API_KEY:              "",
		AI_REQUEST_TIMEOUT:      90 * time.Second,
		AI_POLICY_STOPS_CASCADE: false,
		AI_THINKING_BUDGET:      1024,
		STORAGE_URL:             "",
		STORAGE_SESSION_TTL:     720 * time.Hour,
		QUEUE_BUFFER:            16,
		QUEUE_THROTTLE_REQUESTS: 3,
		QUEUE_THROTTLE_PERIOD:   10 * time.Second,
		LOGGING_LEVEL:           "info",
		LOGGING_WRITE_IN_FILE:   false,
		LOGGING_FILE_PATH:       "bot.log",

		// Model cascades per (tier, capability). First model is tried
		// first; on overload the next one picks up.
		"ai.cascades.pro.text":    []string{"gemini-3.1-pro-preview", "gemini-2.5-pro", "gemini-2.0-pro-exp-02-05"},
		"ai.cascades.pro.image":   []string{"gemini-3-pro-image-preview", "gemini-2.5-flash-image"},
		"ai.cascades.flash.text":  []string{"gemini-3-flash-preview", "gemini-2.5-flash"},
		"ai.cascades.flash.image": []string{"gemini-2.5-flash-image"},
		// Transcription goes through the text models unless overridden.
		"ai.cascades.pro.transcribe":   []string{},
		"ai.cascades.flash.transcribe": []string{},
	}
	k.Load(confmap.Provider(defaults, "."), nil)

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %v", path, err)
			}
			break
		}
	}

	// BANANA_TELEGRAM_TOKEN -> telegram.token: the first underscore
	// separates the section, the rest belongs to the key name. The
	// allow-list arrives as one comma-separated value and must become
	// a slice, otherwise it cannot be cast to []int64.
	k.Load(env.ProviderWithValue("BANANA_", ".", func(key, value string) (string, any) {
		key = strings.Replace(
			strings.ToLower(strings.TrimPrefix(key, "BANANA_")),
			"_", ".", 1,
		)
		if key == TELEGRAM_ALLOWED_USERS {
			ids := []any{}
			for _, part := range strings.Split(value, ",") {
				if part = strings.TrimSpace(part); part != "" {
					ids = append(ids, part)
				}
			}
			return key, ids
		}
		return key, value
	}), nil)

	if k.Get(TELEGRAM_TOKEN) == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if k.Get(AI_API_KEY) == "" {
		return nil, fmt.Errorf("ai api key is required")
	}

	return &Config{k: k}, nil
}

func getConfigPaths() []string {
	paths := []string{}
	if configPath != "" {
		paths = append(paths, configPath)
	}
	paths = append(paths, "config.toml")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "banana-bot", "config.toml"))
	}
	return paths
}

func (c *Config) Global() GlobalConfig {
	return GlobalConfig{
		InterfaceLanguage: c.k.String(GLOBAL_LANGUAGE),
	}
}

func (c *Config) Telegram() TelegramConfig {
	return TelegramConfig{
		Token:        c.k.String(TELEGRAM_TOKEN),
		AllowedUsers: c.k.Int64s(TELEGRAM_ALLOWED_USERS),
		WebhookURL:   strings.TrimRight(c.k.String(TELEGRAM_WEBHOOK_URL), "/"),
		ListenAddr:   c.k.String(TELEGRAM_LISTEN_ADDR),
	}
}

func (c *Config) AI() AIConfig {
	return AIConfig{
		APIKey:             c.k.String(AI_API_KEY),
		RequestTimeout:     c.k.Duration(AI_REQUEST_TIMEOUT),
		PolicyStopsCascade: c.k.Bool(AI_POLICY_STOPS_CASCADE),
		ThinkingBudget:     int32(c.k.Int(AI_THINKING_BUDGET)),
		cascades:           c.loadCascades(),
	}
}

func (c *Config) loadCascades() map[string][]string {
	cascades := map[string][]string{}
	for _, tier := range []string{"pro", "flash"} {
		for _, capability := range []string{"text", "image", "transcribe"} {
			key := fmt.Sprintf("ai.cascades.%s.%s", tier, capability)
			cascades[tier+"."+capability] = c.k.Strings(key)
		}
	}
	return cascades
}

func (c *Config) Storage() StorageConfig {
	return StorageConfig{
		URL:        c.k.String(STORAGE_URL),
		SessionTTL: c.k.Duration(STORAGE_SESSION_TTL),
	}
}

func (c *Config) Queue() QueueConfig {
	buffer := c.k.Int(QUEUE_BUFFER)
	if buffer <= 0 {
		buffer = 16
	}
	requests := c.k.Int(QUEUE_THROTTLE_REQUESTS)
	if requests <= 0 {
		requests = 1
	}
	period := c.k.Duration(QUEUE_THROTTLE_PERIOD)
	if period <= 0 {
		period = 10 * time.Second
	}
	return QueueConfig{
		Buffer: buffer,
		Throttle: queueThrottleOptions{
			Requests: requests,
			Period:   period,
		},
	}
}

func (c *Config) Log() LoggingConfig {
	return LoggingConfig{
		LogLevel:    c.k.String(LOGGING_LEVEL),
		WriteInFile: c.k.Bool(LOGGING_WRITE_IN_FILE),
		FilePath:    c.k.String(LOGGING_FILE_PATH),
	}
}
