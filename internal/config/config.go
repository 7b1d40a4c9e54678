package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Name string `yaml:"name"`
		Port string `yaml:"port"`
	} `yaml:"app"`

	Gateway struct {
		BaseURL string        `yaml:"base_url"`
		Prefix  string        `yaml:"prefix"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"gateway"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	Timezone string `yaml:"timezone"`

	WhatsApp struct {
		PixKey      string `yaml:"pix_key"`
		CountryCode string `yaml:"country_code"`
	} `yaml:"whatsapp"`

	Session struct {
		TTL           time.Duration `yaml:"ttl"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"session"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "console-service"
	cfg.App.Port = "8080"
	cfg.Gateway.Prefix = "/api/v1"
	cfg.Gateway.Timeout = 30 * time.Second
	cfg.Log.Level = "info"
	cfg.Timezone = "America/Sao_Paulo"
	cfg.WhatsApp.CountryCode = "55"
	cfg.Session.TTL = 30 * time.Minute
	cfg.Session.SweepInterval = time.Minute
	return cfg
}

// Load reads the optional YAML file at yamlPath, then the optional .env file
// at envPath, then the process environment. Later sources win. Missing files
// are not an error.
func Load(yamlPath, envPath string) (*Config, error) {
	cfg := defaults()

	if yamlPath != "" {
		if err := loadYAML(yamlPath, cfg); err != nil {
			return nil, err
		}
	}

	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Name, "APP_NAME")
	setString(&cfg.App.Port, "APP_PORT")
	setString(&cfg.Gateway.BaseURL, "GATEWAY_BASE_URL")
	setString(&cfg.Gateway.Prefix, "GATEWAY_PREFIX")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.WhatsApp.PixKey, "PIX_KEY")
	setString(&cfg.WhatsApp.CountryCode, "WHATSAPP_COUNTRY_CODE")

	if v := os.Getenv("LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_PRETTY %q: %w", v, err)
		}
		cfg.Log.Pretty = pretty
	}
	if err := setDuration(&cfg.Gateway.Timeout, "GATEWAY_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	return setDuration(&cfg.Session.SweepInterval, "SESSION_SWEEP_INTERVAL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func (c *Config) validate() error {
	if c.Gateway.BaseURL == "" {
		return errors.New("GATEWAY_BASE_URL is required")
	}
	if c.Gateway.Timeout <= 0 {
		return errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone. It falls back to the local zone, which only
// happens when the config was built without Load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
