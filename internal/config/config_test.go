package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"db_dsn": "postgres://localhost/archimatch?sslmode=disable",
		"jwt_secret": "secret",
		"port": 8080
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 72, cfg.JWTTTLHours)
	require.Equal(t, "migrations", cfg.MigrationsDir)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "gemini", cfg.AI.Provider)
	require.Equal(t, 10, cfg.Rank.TopK)
	require.Equal(t, 3, cfg.Rank.RateLimitSeconds)
	require.Equal(t, "log", cfg.Notify.Type)
	require.Equal(t, 50, cfg.Jobs.BatchSize)
}

func TestLoadMissingRequired(t *testing.T) {
	for name, body := range map[string]string{
		"db_dsn":     `{"jwt_secret": "s", "port": 8080}`,
		"jwt_secret": `{"db_dsn": "dsn", "port": 8080}`,
		"port":       `{"db_dsn": "dsn", "jwt_secret": "s"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadNatsNotifierRequiresURL(t *testing.T) {
	path := writeConfig(t, `{
		"db_dsn": "dsn",
		"jwt_secret": "s",
		"port": 8080,
		"notify": {"type": "nats"}
	}`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, `{
		"db_dsn": "dsn",
		"jwt_secret": "s",
		"port": 8080,
		"notify": {"type": "nats", "nats_url": "nats://127.0.0.1:4222"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "nats", cfg.Notify.Type)
}

func TestLoadRejectsUnknownNotifier(t *testing.T) {
	path := writeConfig(t, `{
		"db_dsn": "dsn",
		"jwt_secret": "s",
		"port": 8080,
		"notify": {"type": "pigeon"}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}
