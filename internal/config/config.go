package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

type Config struct {
	Env             string
	LogLevel        string
	APIURL          string
	ListenAddr      string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	ProgressTable   string
	CORSOrigins     []string
}

func Default() Config {
	return Config{
		Env:             "production",
		LogLevel:        "info",
		APIURL:          "http://localhost:5001",
		ListenAddr:      ":5173",
		RequestTimeout:  10 * time.Second,
		RefreshInterval: 0,
		ProgressTable:   "default",
		CORSOrigins:     []string{"http://localhost:5173"},
	}
}

// Load reads .env files (if any) and then the environment on top of Default.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("TRACKER_ENV"); v != "" {
		cfg.Env = strings.ToLower(v)
	}
	if v := getenv("TRACKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("TRACKER_API_URL"); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := getenv("TRACKER_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("TRACKER_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := getenv("TRACKER_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKER_REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = d
	}
	if v := getenv("TRACKER_PROGRESS_TABLE"); v != "" {
		cfg.ProgressTable = v
	}
	if v := getenv("TRACKER_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api url %q must start with http:// or https://", c.APIURL)
	}
	if c.RequestTimeout < 0 || c.RefreshInterval < 0 {
		return errors.New("durations must not be negative")
	}
	if _, err := models.ProgressTableByName(c.ProgressTable); err != nil {
		return err
	}
	for _, o := range c.CORSOrigins {
		if err := validateOrigin(o); err != nil {
			return fmt.Errorf("TRACKER_CORS_ORIGINS: %w", err)
		}
	}
	return nil
}

// validateOrigin accepts what cors.New accepts: "*" or an http(s) origin.
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("origin %q: %w", origin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("origin %q must look like http://host[:port]", origin)
	}
	return nil
}

func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Progress returns the configured table. Validate has already vetted the name.
func (c Config) Progress() models.ProgressTable {
	t, err := models.ProgressTableByName(c.ProgressTable)
	if err != nil {
		return models.DefaultProgress
	}
	return t
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
