package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// Config represents the entire application configuration.
type Config struct {
	DatabasePath     string      `yaml:"database_path"`
	Web              WebConfig   `yaml:"web"`
	Login            LoginConfig `yaml:"login"`
	Rates            RatesConfig `yaml:"rates"`
	DataStartDateStr string      `yaml:"data_date_start"`
	DataStartDate    time.Time   // Parsed from DataStartDateStr
}

// WebConfig holds settings specific to the web server.
type WebConfig struct {
	TemplatesPath   string `yaml:"templates_path"`
	StaticPath      string `yaml:"static_path"`
	ListenAddress   string `yaml:"listen_address"`
	DevelopmentMode bool   `yaml:"development_mode"`
}

// LoginConfig holds the single-user login credentials. The password is
// stored as a bcrypt hash, never in clear.
type LoginConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// RatesConfig holds the default per-liter fuel rates used to prefill the
// daily entry form. The rates actually applied to a day's entry are the
// ones submitted with it.
type RatesConfig struct {
	Petrol float64 `yaml:"petrol"`
	HSD    float64 `yaml:"hsd"`
	XP     float64 `yaml:"xp"`
}

// Load loads and validates the configuration from the given file path.
func Load(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", filePath)
	}

	configFile, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(configFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse YAML config file: %w", err)
	}

	if err := validateAndPrepare(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateAndPrepare checks for required fields and sets up derived values.
func validateAndPrepare(c *Config) error {
	// General
	if c.DatabasePath == "" {
		return errors.New("database_path is missing")
	}
	if c.DataStartDateStr == "" {
		return errors.New("data_date_start is missing")
	}
	parsedDate, err := time.Parse("2006-01-02", c.DataStartDateStr)
	if err != nil {
		return fmt.Errorf("invalid data_date_start format: %w", err)
	}
	c.DataStartDate = parsedDate

	// Web
	if c.Web.TemplatesPath == "" {
		return errors.New("web.templates_path is missing")
	}
	if c.Web.StaticPath == "" {
		return errors.New("web.static_path is missing")
	}
	if c.Web.ListenAddress == "" {
		return errors.New("web.listen_address is missing")
	}

	// Login
	if c.Login.Username == "" {
		return errors.New("login.username is missing")
	}
	if c.Login.PasswordHash == "" {
		return errors.New("login.password_hash is missing")
	}
	if _, err := bcrypt.Cost([]byte(c.Login.PasswordHash)); err != nil {
		return fmt.Errorf("login.password_hash is not a valid bcrypt hash: %w", err)
	}

	// Rates
	if c.Rates.Petrol <= 0 {
		return errors.New("rates.petrol must be greater than zero")
	}
	if c.Rates.HSD <= 0 {
		return errors.New("rates.hsd must be greater than zero")
	}
	if c.Rates.XP <= 0 {
		return errors.New("rates.xp must be greater than zero")
	}

	return nil
}
