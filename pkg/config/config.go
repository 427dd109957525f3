package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RoleAggregator = "aggregator"
	RoleServerA    = "server_a"
	RoleServerB    = "server_b"
	RoleMigrate    = "migrate"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	ToolServer ToolServerConfig `mapstructure:"toolserver"`
	Timeouts   TimeoutsConfig   `mapstructure:"timeouts"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	PortA        int    `mapstructure:"port_a"`
	PortB        int    `mapstructure:"port_b"`
	FrontendPort int    `mapstructure:"frontend_port"`
	MetricsPort  int    `mapstructure:"metrics_port"`
}

type OracleConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type RedisConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	ExecutionLogSize int64  `mapstructure:"execution_log_size"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type ToolServerConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

// RateLimitConfig guards the oracle-backed aggregator routes. It needs redis.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`

	// TrustProxyHeaders keys clients by X-Forwarded-For and friends.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

type TimeoutsConfig struct {
	Health  time.Duration `mapstructure:"health"`
	Catalog time.Duration `mapstructure:"catalog"`
	Execute time.Duration `mapstructure:"execute"`
	Probe   time.Duration `mapstructure:"probe"`
}

// envAliases lists the short env names accepted besides the
// dotted-key form (DATABASE_URL, SERVER_PORT_A, ...).
var envAliases = map[string][]string{
	"database.url":         {"DATABASE_URL"},
	"server.port_a":        {"SERVER_PORT_A", "PORT_A"},
	"server.port_b":        {"SERVER_PORT_B", "PORT_B"},
	"server.frontend_port": {"SERVER_FRONTEND_PORT", "FRONTEND_PORT"},
	"oracle.api_key":       {"ORACLE_API_KEY", "GOOGLE_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port_a", 3001)
	v.SetDefault("server.port_b", 3002)
	v.SetDefault("server.frontend_port", 3000)
	v.SetDefault("server.metrics_port", 9090)

	v.SetDefault("oracle.provider", "google")
	v.SetDefault("oracle.model", "gemini-2.5-flash")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.max_tokens", 1024)
	v.SetDefault("oracle.temperature", 0.0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.execution_log_size", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("toolserver.heartbeat_interval", time.Second)

	v.SetDefault("timeouts.health", 5*time.Second)
	v.SetDefault("timeouts.catalog", 10*time.Second)
	v.SetDefault("timeouts.execute", 30*time.Second)
	v.SetDefault("timeouts.probe", 5*time.Second)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.limit", 30)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("ratelimit.trust_proxy_headers", false)
}

// Load reads the .env file (ENV_FILE overrides the path), then
// config.yaml from configPath or ./config when present. Environment
// variables always win.
func Load(configPath string) (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Oracle.Provider = strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider))
	return &cfg, nil
}

// Validate reports the first required value missing for role.
func (c *Config) Validate(role string) error {
	switch role {
	case RoleAggregator, RoleServerA, RoleServerB, RoleMigrate:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if role == RoleMigrate {
		return nil
	}
	if c.PortFor(role) <= 0 {
		return fmt.Errorf("no port configured for %s", role)
	}
	if role == RoleAggregator {
		switch c.Oracle.Provider {
		case "google", "openai", "anthropic":
		default:
			return fmt.Errorf("unsupported oracle provider %q", c.Oracle.Provider)
		}
		if strings.TrimSpace(c.Oracle.APIKey) == "" {
			return errors.New("ORACLE_API_KEY (or GOOGLE_API_KEY) is required for the aggregator")
		}
	}
	return nil
}

// PortFor returns the listening port of a serving role.
func (c *Config) PortFor(role string) int {
	switch role {
	case RoleAggregator:
		return c.Server.FrontendPort
	case RoleServerA:
		return c.Server.PortA
	case RoleServerB:
		return c.Server.PortB
	default:
		return 0
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
