package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Backend struct {
		BaseURL      string
		WSURL        string
		DashboardURL string
	}
	Auth struct {
		Token string
	}
	Chat struct {
		ResponseTimeoutSec int
		MaxMessageLen      int
	}
	Notify struct {
		AppName       string
		RatePerSecond int
		Burst         int
	}
	Speech struct {
		SpeakCommand string
	}
	Store struct {
		Path string
	}
	Time struct {
		PinnedZone string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.Backend.BaseURL = os.Getenv("BACKEND_URL")
	cfg.Backend.WSURL = os.Getenv("WS_URL")
	cfg.Backend.DashboardURL = os.Getenv("DASHBOARD_URL")

	cfg.Auth.Token = os.Getenv("AUTH_TOKEN")

	if v, err := strconv.Atoi(os.Getenv("CHAT_RESPONSE_TIMEOUT")); err == nil {
		cfg.Chat.ResponseTimeoutSec = v
	}
	if v, err := strconv.Atoi(os.Getenv("CHAT_MAX_MESSAGE_LEN")); err == nil {
		cfg.Chat.MaxMessageLen = v
	}

	cfg.Notify.AppName = os.Getenv("APP_NAME")
	if v, err := strconv.Atoi(os.Getenv("NOTIFY_RATE_LIMIT")); err == nil {
		cfg.Notify.RatePerSecond = v
	}
	if v, err := strconv.Atoi(os.Getenv("NOTIFY_BURST")); err == nil {
		cfg.Notify.Burst = v
	}

	cfg.Speech.SpeakCommand = os.Getenv("SPEAK_COMMAND")
	cfg.Store.Path = os.Getenv("STORE_PATH")
	cfg.Time.PinnedZone = os.Getenv("PINNED_TIMEZONE")
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.Backend.BaseURL == "" {
		missing = append(missing, "BACKEND_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Backend.WSURL == "" {
		ws, err := deriveWSURL(cfg.Backend.BaseURL)
		if err != nil {
			return Config{}, fmt.Errorf("cannot derive WS_URL from BACKEND_URL: %w", err)
		}
		cfg.Backend.WSURL = ws
	}
	if cfg.Backend.DashboardURL == "" {
		cfg.Backend.DashboardURL = strings.TrimRight(cfg.Backend.BaseURL, "/") + "/dashboard"
	}
	if cfg.Chat.ResponseTimeoutSec == 0 {
		cfg.Chat.ResponseTimeoutSec = 60
	}
	if cfg.Chat.MaxMessageLen == 0 {
		cfg.Chat.MaxMessageLen = 2000
	}
	if cfg.Notify.AppName == "" {
		cfg.Notify.AppName = "Assistant"
	}
	if cfg.Notify.RatePerSecond == 0 {
		cfg.Notify.RatePerSecond = 1
	}
	if cfg.Notify.Burst == 0 {
		cfg.Notify.Burst = 3
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "assistant.db"
	}
	if cfg.Time.PinnedZone == "" {
		cfg.Time.PinnedZone = "Asia/Kolkata"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// deriveWSURL maps the backend base URL to its websocket endpoint.
func deriveWSURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}
