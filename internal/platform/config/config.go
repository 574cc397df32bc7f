package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Gate      GateConfig      `mapstructure:"gate"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Migration MigrationConfig `mapstructure:"migration"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds the elevated (service-role) Postgres DSN. This
// connection bypasses row-level security; it stays inside the process
// and is never handed to the presentation layer.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// IdentityConfig describes the hosted auth provider. JWTSecret is the
// project secret the provider signs user access tokens with, so tokens
// can be verified locally without a network round trip.
type IdentityConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	AnonKey           string        `mapstructure:"anon_key"`
	ServiceRoleKey    string        `mapstructure:"service_role_key"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	AccessCookieName  string        `mapstructure:"access_cookie_name"`
	RefreshCookieName string        `mapstructure:"refresh_cookie_name"`
	CookieDomain      string        `mapstructure:"cookie_domain"`
	CookieSecure      bool          `mapstructure:"cookie_secure"`
}

type GateConfig struct {
	LoginPath string `mapstructure:"login_path"`
	HomePath  string `mapstructure:"home_path"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// MigrationConfig gates the dev-only migrate endpoint. SecretHash is a
// bcrypt hash of the shared secret, never the secret itself.
type MigrationConfig struct {
	SecretHash string `mapstructure:"secret_hash"`
	Dir        string `mapstructure:"dir"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Gate.LoginPath == "" {
		config.Gate.LoginPath = "/login"
	}
	if config.Gate.HomePath == "" {
		config.Gate.HomePath = "/"
	}
	if config.Identity.AccessCookieName == "" {
		config.Identity.AccessCookieName = "sb-access-token"
	}
	if config.Identity.RefreshCookieName == "" {
		config.Identity.RefreshCookieName = "sb-refresh-token"
	}

	return &config, nil
}
