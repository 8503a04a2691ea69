package config

// Config is the top-level wabridge configuration, corresponding to .wabridge.yml.
type Config struct {
	Host             string   `yaml:"host" koanf:"host"`
	Port             int      `yaml:"port" koanf:"port"`
	Prefix           string   `yaml:"prefix" koanf:"prefix"`
	GatewayDir       string   `yaml:"gateway_dir" koanf:"gateway_dir"`
	AutoStartGateway bool     `yaml:"auto_start_gateway" koanf:"auto_start_gateway"`
	GatewayCmd       []string `yaml:"gateway_cmd" koanf:"gateway_cmd"`
	CORSAllowAll     bool     `yaml:"cors_allow_all" koanf:"cors_allow_all"`
	LogLevel         string   `yaml:"log_level" koanf:"log_level"`
}
