package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/multierr"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	Config struct {
		Host       string `mapstructure:"HOST"`
		Port       string `mapstructure:"PORT"`
		GRPCPort   string `mapstructure:"GRPC_PORT"`
		BaseURL    string `mapstructure:"BASE_URL"`
		DBDriver   string `mapstructure:"DB_DRIVER"`
		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`
		SQLitePath string `mapstructure:"SQLITE_PATH"`
		JWTSecret  string `mapstructure:"JWT_SECRET"`
		JWTIssuer  string `mapstructure:"JWT_ISSUER"`
		LogLevel   string `mapstructure:"LOG_LEVEL"`
	}
)

var Module = fx.Provide(NewConfig)

var defaults = map[string]string{
	"HOST":        "0.0.0.0",
	"PORT":        "1323",
	"GRPC_PORT":   "9000",
	"BASE_URL":    "http://localhost:1323",
	"DB_DRIVER":   DriverPostgres,
	"DB_HOST":     "0.0.0.0",
	"DB_PORT":     "5432",
	"DB_USER":     "user",
	"DB_PASSWORD": "password",
	"DB_NAME":     "db",
	"DB_SSL_MODE": sslModeDisable,
	"SQLITE_PATH": "linkhub.db",
	"JWT_SECRET":  "",
	"JWT_ISSUER":  "",
	"LOG_LEVEL":   "info",
}

func NewConfig() (*Config, error) {
	// a missing .env is fine, the environment may be set another way
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LINKHUB")

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) HTTPAddr() string { return c.Host + ":" + c.Port }

func (c *Config) GRPCAddr() string { return c.Host + ":" + c.GRPCPort }

func validate(cfg *Config) error {
	var err error
	if cfg.DBSSLMode != sslModeDisable && cfg.DBSSLMode != sslModeRequire {
		err = multierr.Append(err, errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode)))
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		err = multierr.Append(err, errors.New(fmt.Sprintf("DB driver is invalid: %s", cfg.DBDriver)))
	}
	if cfg.JWTSecret == "" {
		err = multierr.Append(err, errors.New("JWT secret is required"))
	}
	return err
}
