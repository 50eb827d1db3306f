package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceURL       = "https://opentdb.com"
	DefaultAmount          = 10
	DefaultQuestionType    = "multiple"
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultQuestionSeconds = 30
	DefaultTickInterval    = time.Second
	DefaultLogMode         = "dev"
	DefaultCatalogDSN      = "file:catalog?mode=memory&cache=shared"
	DefaultServerAddr      = "127.0.0.1:8080"
)

type Config struct {
	Source struct {
		BaseURL      string        `yaml:"base_url"`
		Amount       int           `yaml:"amount"`
		QuestionType string        `yaml:"question_type"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"source"`
	Session struct {
		QuestionSeconds int           `yaml:"question_seconds"`
		TickInterval    time.Duration `yaml:"tick_interval"`
	} `yaml:"session"`
	Catalog struct {
		DSN            string `yaml:"dsn"`
		RefreshOnStart bool   `yaml:"refresh_on_start"`
	} `yaml:"catalog"`
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Source.BaseURL = DefaultSourceURL
	cfg.Source.Amount = DefaultAmount
	cfg.Source.QuestionType = DefaultQuestionType
	cfg.Source.Timeout = DefaultHTTPTimeout
	cfg.Session.QuestionSeconds = DefaultQuestionSeconds
	cfg.Session.TickInterval = DefaultTickInterval
	cfg.Catalog.DSN = DefaultCatalogDSN
	cfg.Server.Addr = DefaultServerAddr
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Log.Mode = DefaultLogMode
	return cfg
}

// Load reads .env (if present), then the optional YAML file, then QUIZ_*
// environment overrides. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("QUIZ_CONFIG")
	}
	if strings.TrimSpace(path) != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("QUIZ_SOURCE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("QUIZ_AMOUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZ_AMOUNT: %w", err)
		}
		c.Source.Amount = n
	}
	if v := os.Getenv("QUIZ_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZ_HTTP_TIMEOUT: %w", err)
		}
		c.Source.Timeout = d
	}
	if v := os.Getenv("QUIZ_QUESTION_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZ_QUESTION_SECONDS: %w", err)
		}
		c.Session.QuestionSeconds = n
	}
	if v := os.Getenv("QUIZ_CATALOG_DSN"); v != "" {
		c.Catalog.DSN = v
	}
	if v := os.Getenv("QUIZ_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QUIZ_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("QUIZ_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.BaseURL) == "" {
		return errors.New("source.base_url is required")
	}
	if c.Source.Amount <= 0 {
		return errors.New("source.amount must be positive")
	}
	if c.Session.QuestionSeconds <= 0 {
		return errors.New("session.question_seconds must be positive")
	}
	if c.Session.TickInterval <= 0 {
		return errors.New("session.tick_interval must be positive")
	}
	return nil
}
