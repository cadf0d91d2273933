package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "BACKEND_URL")
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://assistant.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "wss://assistant.example.com/ws", cfg.Backend.WSURL)
	require.Equal(t, "https://assistant.example.com/dashboard", cfg.Backend.DashboardURL)
	require.Equal(t, 60, cfg.Chat.ResponseTimeoutSec)
	require.Equal(t, 2000, cfg.Chat.MaxMessageLen)
	require.Equal(t, "Assistant", cfg.Notify.AppName)
	require.Equal(t, 1, cfg.Notify.RatePerSecond)
	require.Equal(t, 3, cfg.Notify.Burst)
	require.Equal(t, "assistant.db", cfg.Store.Path)
	require.Equal(t, "Asia/Kolkata", cfg.Time.PinnedZone)
	require.Equal(t, "logs", cfg.Logging.Dir)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadHonorsOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8080")
	t.Setenv("WS_URL", "ws://localhost:9090/ws")
	t.Setenv("CHAT_RESPONSE_TIMEOUT", "15")
	t.Setenv("CHAT_MAX_MESSAGE_LEN", "500")
	t.Setenv("PINNED_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "ws://localhost:9090/ws", cfg.Backend.WSURL)
	require.Equal(t, 15, cfg.Chat.ResponseTimeoutSec)
	require.Equal(t, 500, cfg.Chat.MaxMessageLen)
	require.Equal(t, "UTC", cfg.Time.PinnedZone)
}

func TestDeriveWSURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{base: "https://api.example.com/", want: "wss://api.example.com/ws"},
		{base: "ftp://example.com", wantErr: true},
	}
	for _, tt := range tests {
		got, err := deriveWSURL(tt.base)
		if tt.wantErr {
			require.Error(t, err, tt.base)
			continue
		}
		require.NoError(t, err, tt.base)
		require.Equal(t, tt.want, got)
	}
}
