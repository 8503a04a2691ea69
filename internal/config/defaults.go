package config

import "github.com/ziadkadry99/wabridge/pkg/bot"

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".wabridge.yml"

// EnvPrefix prefixes environment overrides: WABRIDGE_PORT -> port.
const EnvPrefix = "WABRIDGE_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	d := bot.DefaultConfig()
	return &Config{
		Host:             d.Host,
		Port:             d.Port,
		Prefix:           d.Prefix,
		GatewayDir:       d.GatewayDir,
		AutoStartGateway: d.AutoStartGateway,
		GatewayCmd:       d.GatewayCmd,
		LogLevel:         "info",
	}
}

// BotConfig converts c to the client configuration.
func (c *Config) BotConfig() bot.Config {
	return bot.Config{
		Host:             c.Host,
		Port:             c.Port,
		Prefix:           c.Prefix,
		GatewayDir:       c.GatewayDir,
		AutoStartGateway: c.AutoStartGateway,
		GatewayCmd:       append([]string(nil), c.GatewayCmd...),
		CORSAllowAll:     c.CORSAllowAll,
	}
}
