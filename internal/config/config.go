package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	Storage        string   `yaml:"storage"` // postgres|memory
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	DB  DBConfig  `yaml:"db"`
	AI  AIConfig  `yaml:"ai"`
	Log LogConfig `yaml:"log"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// AIConfig configures the optional enrichment model. An empty APIKey
// disables enrichment.
type AIConfig struct {
	Provider   string `yaml:"provider"` // gemini|openai
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	RPM        int    `yaml:"rpm"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		Storage:        "postgres",
		AllowedOrigins: []string{"*"},
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		AI: AIConfig{
			Provider:   "gemini",
			TimeoutSec: 15,
			RPM:        30,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. Env wins.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.AI.Model == "" {
		switch cfg.AI.Provider {
		case "openai":
			cfg.AI.Model = "gpt-4o-mini"
		default:
			cfg.AI.Model = "gemini-2.0-flash"
		}
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.Storage, "STORAGE")
	setString(&c.JWTSecret, "JWT_SECRET")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = strings.Split(v, ",")
	}

	setString(&c.DB.Host, "DB_HOST")
	setInt(&c.DB.Port, "DB_PORT")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD")
	setString(&c.DB.Name, "DB_NAME")
	setString(&c.DB.SSLMode, "DB_SSLMODE")

	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.Model, "AI_MODEL")
	setString(&c.AI.BaseURL, "AI_BASE_URL")
	setInt(&c.AI.TimeoutSec, "AI_TIMEOUT_SEC")
	setInt(&c.AI.RPM, "AI_RPM")
	// provider-specific keys are accepted as well
	switch {
	case os.Getenv("AI_API_KEY") != "":
		c.AI.APIKey = os.Getenv("AI_API_KEY")
	case c.AI.Provider == "openai" && os.Getenv("OPENAI_API_KEY") != "":
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	case c.AI.Provider == "gemini" && os.Getenv("GEMINI_API_KEY") != "":
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.File, "LOG_FILE")
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode,
	)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return // keep previous value
	}
	*dst = n
}
