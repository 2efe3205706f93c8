package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	Driver string
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	// RefreshRoleFromRecord re-derives the actor role from the re-fetched
	// record on every request instead of trusting the token's role claim.
	RefreshRoleFromRecord bool
	SignupRoles           []string
}

type JobsConfig struct {
	PruneAssignments string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Storage          StorageConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	// Values from .env never override variables already in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("EDUMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwtsecret is required"))
	}
	if c.Security.TokenTTL <= 0 {
		errs = append(errs, errors.New("security.tokenttl must be positive"))
	}
	for i, role := range c.Security.SignupRoles {
		role = strings.ToUpper(strings.TrimSpace(role))
		switch role {
		case "ADMIN", "PARENT", "TEACHER":
			c.Security.SignupRoles[i] = role
		default:
			errs = append(errs, fmt.Errorf("security.signuproles: %q cannot be self-registered", role))
		}
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres storage driver"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("storage.driver", StorageDriverPostgres)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.jwtsecret", "")
	v.SetDefault("security.jwtissuer", "edumate")
	v.SetDefault("security.tokenttl", "24h")
	v.SetDefault("security.refreshrolefromrecord", false)
	v.SetDefault("security.signuproles", []string{"ADMIN", "PARENT", "TEACHER"})

	v.SetDefault("jobs.pruneassignments", "0 30 3 * * *") // nightly

	v.SetDefault("allowcorsorigins", []string{})
}
