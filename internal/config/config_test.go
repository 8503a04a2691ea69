package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "!", cfg.Prefix)
	assert.Equal(t, "./gateway", cfg.GatewayDir)
	assert.True(t, cfg.AutoStartGateway)
	assert.Equal(t, []string{"npm", "start"}, cfg.GatewayCmd)
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wabridge.yml")

	original := DefaultConfig()
	original.Host = "0.0.0.0"
	original.Port = 9100
	original.Prefix = "/"
	original.GatewayDir = "../wa-gateway"
	original.AutoStartGateway = false
	original.GatewayCmd = []string{"npm", "run", "dev"}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadShorterCommandList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.yml")
	require.NoError(t, os.WriteFile(path, []byte("gateway_cmd: [node]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"node"}, cfg.GatewayCmd)
}

func TestLoadMissingFile(t *testing.T) {
	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("WABRIDGE_PORT", "9001")
	t.Setenv("WABRIDGE_AUTO_START_GATEWAY", "false")
	t.Setenv("WABRIDGE_GATEWAY_DIR", "/srv/gateway")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, loaded.Port)
	assert.False(t, loaded.AutoStartGateway)
	assert.Equal(t, "/srv/gateway", loaded.GatewayDir)
}

func TestLoadEnvGatewayCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("WABRIDGE_GATEWAY_CMD", "npm run dev")
	t.Setenv("WABRIDGE_CORS_ALLOW_ALL", "true")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"npm", "run", "dev"}, loaded.GatewayCmd)
	assert.True(t, loaded.CORSAllowAll)
	assert.True(t, loaded.BotConfig().CORSAllowAll)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty host", func(c *Config) { c.Host = "" }, false},
		{"port zero", func(c *Config) { c.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Port = 70000 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"empty gateway dir", func(c *Config) { c.GatewayDir = "" }, false},
		{"empty gateway cmd", func(c *Config) { c.GatewayCmd = nil }, false},
		{"blank gateway cmd", func(c *Config) { c.GatewayCmd = []string{""} }, false},
		{"no gateway when disabled", func(c *Config) {
			c.AutoStartGateway = false
			c.GatewayDir = ""
			c.GatewayCmd = nil
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	cfg.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = ""
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestBotConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 9200
	bc := cfg.BotConfig()
	assert.Equal(t, 9200, bc.Port)
	assert.Equal(t, cfg.GatewayCmd, bc.GatewayCmd)

	bc.GatewayCmd[0] = "changed"
	assert.Equal(t, "npm", cfg.GatewayCmd[0])
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"npm start", []string{"npm", "start"}},
		{"  npm   run  dev ", []string{"npm", "run", "dev"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitCommand(tt.input), tt.input)
	}
}
