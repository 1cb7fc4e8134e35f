package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultDepartments is the canonical department catalogue used when no
// configuration overrides it.
var DefaultDepartments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"Finance",
	"Human Resources",
	"Operations",
	"Research & Development",
	"Customer Support",
}

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	Cache       CacheConfig       `toml:"cache"`
	Log         LogConfig         `toml:"log"`
	Departments DepartmentsConfig `toml:"departments"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string   `toml:"port"`
	Mode        string   `toml:"mode"` // gin mode: debug, release, test
	JWTSecret   string   `toml:"jwt_secret,omitempty"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DatabaseConfig selects and configures the gorm dialector.
type DatabaseConfig struct {
	Driver     string `toml:"driver"` // postgres or sqlite
	Host       string `toml:"host"`
	Port       string `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password,omitempty"`
	Name       string `toml:"name"`
	SSLMode    string `toml:"sslmode"`
	SQLitePath string `toml:"sqlite_path"`
}

// RedisConfig holds the membership cache backend. An empty Addr disables redis.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db"`
}

// CacheConfig holds cache TTLs.
type CacheConfig struct {
	MembershipTTL Duration `toml:"membership_ttl"`
}

// LogConfig holds logrus settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or text
}

// DepartmentsConfig is the canonical department catalogue.
type DepartmentsConfig struct {
	Names []string `toml:"names"`
}

// Duration is a time.Duration that decodes from TOML strings like "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			Mode:        "debug",
			CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Password:   "postgres",
			Name:       "paisawise",
			SSLMode:    "disable",
			SQLitePath: "paisawise.db",
		},
		Cache: CacheConfig{
			MembershipTTL: Duration{10 * time.Minute},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Departments: DepartmentsConfig{
			Names: append([]string(nil), DefaultDepartments...),
		},
	}
}

// Load reads configs/.env, the optional TOML file named by APP_CONFIG and
// finally the process environment, each layer overriding the previous one.
func Load() (Config, error) {
	// .env is optional; real environment variables always win over it.
	_ = godotenv.Load("configs/.env")

	cfg := DefaultConfig()

	if path := os.Getenv("APP_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file on top of cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.Server.JWTSecret, "JWT_SECRET")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Redis.DB = n
	}

	if v := os.Getenv("MEMBERSHIP_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MEMBERSHIP_CACHE_TTL %q: %w", v, err)
		}
		cfg.Cache.MembershipTTL = Duration{d}
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("DEPARTMENTS"); v != "" {
		cfg.Departments.Names = splitList(v)
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.Server.Mode)
	}
	if c.Server.Mode == "release" && c.Server.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in release mode")
	}
	if len(c.Departments.Names) == 0 {
		return errors.New("department catalogue is empty")
	}
	return nil
}

// Secret returns the JWT signing key, falling back to a development key
// outside release mode.
func (c Config) Secret() []byte {
	if c.Server.JWTSecret == "" {
		return []byte("paisawise_dev_secret")
	}
	return []byte(c.Server.JWTSecret)
}

// PostgresDSN builds the pgx connection string.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
