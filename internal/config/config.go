package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Addr        string         `yaml:"addr"`
	APISecret   string         `yaml:"api_secret"`
	APITimeout  time.Duration  `yaml:"timeout"`
	DBTimeout   time.Duration  `yaml:"db_timeout"`
	LogLevel    string         `yaml:"log_level"`
	Environment string         `yaml:"environment"`
	Database    DatabaseConfig `yaml:"database"`
}

// DatabaseConfig selects the backing store. When Host is set the service
// connects to Postgres; otherwise it opens the SQLite file at Path.
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Driver returns the database/sql driver name for this configuration.
func (d DatabaseConfig) Driver() string {
	if d.Host != "" {
		return DriverPostgres
	}
	return DriverSQLite
}

// DSN returns the connection string for Driver.
func (d DatabaseConfig) DSN() string {
	if d.Host == "" {
		return d.Path
	}

	port := d.Port
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", d.Host, port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else if d.User != "" {
		u.User = url.User(d.User)
	}
	return u.String()
}

// LoadConfig builds the configuration from environment variables, then
// overlays the YAML file at path when one is given. In development a
// .env file in the working directory is read first. Postgres settings
// come from the conventional PG* variables so the same environment
// works for psql and migrations tooling.
func LoadConfig(path string) (*Config, error) {
	// .env loading is only permitted when WORKFORCE_ENV=development;
	// anywhere else the process environment is the sole source.
	environment := getEnv("WORKFORCE_ENV", "production")
	if environment == "development" {
		// Missing .env is the normal case outside local setups.
		_ = godotenv.Load()
	}

	addr := os.Getenv("WORKFORCE_ADDR")
	if addr == "" {
		if p := os.Getenv("PORT"); p != "" {
			addr = ":" + p
		} else {
			addr = ":8000"
		}
	}

	cfg := &Config{
		Addr:        addr,
		APISecret:   os.Getenv("WORKFORCE_API_SECRET"),
		APITimeout:  15 * time.Second,
		DBTimeout:   5 * time.Second,
		LogLevel:    getEnv("WORKFORCE_LOG_LEVEL", "info"),
		Environment: environment,
		Database: DatabaseConfig{
			Path:     getEnv("WORKFORCE_DB_PATH", "workforce.db"),
			Host:     os.Getenv("PGHOST"),
			Port:     os.Getenv("PGPORT"),
			User:     os.Getenv("PGUSER"),
			Password: os.Getenv("PGPASSWORD"),
			Name:     os.Getenv("PGDATABASE"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	environments = []string{"development", "production"}
)

// Validate rejects configurations that would only fail later at the
// first request, partial Postgres credentials in particular.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.APITimeout)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("db_timeout must be positive, got %v", c.DBTimeout)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel != "" && !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %v, got %q", logLevels, c.LogLevel)
	}

	if c.Environment != "" && !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("environment must be one of %v, got %q", environments, c.Environment)
	}

	db := c.Database
	partial := db.Host != "" || db.User != "" || db.Password != "" || db.Name != ""
	if partial {
		if db.Host == "" || db.User == "" || db.Name == "" {
			return fmt.Errorf("postgres configuration requires host, user and database name")
		}
	} else if db.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
