package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/extract"
	"github.com/MrJamesThe3rd/tally/internal/normalize"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tally"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Import struct {
		// RulesPath points at a YAML keyword table. Empty uses the built-in one.
		RulesPath       string   `envconfig:"CATEGORY_RULES_PATH"`
		DefaultCategory string   `envconfig:"DEFAULT_CATEGORY"`
		CreditKeywords  []string `envconfig:"CREDIT_KEYWORDS"`
		DayFirst        bool     `envconfig:"IMPORT_DAY_FIRST" default:"false"`
		MaxUploadBytes  int64    `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
		PDFToText       string   `envconfig:"PDFTOTEXT_PATH" default:"pdftotext"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Categories loads the keyword table, applying the default category override.
func (c *Config) Categories() (category.Config, error) {
	cfg := category.DefaultConfig()

	if c.Import.RulesPath != "" {
		var err error
		if cfg, err = category.LoadConfig(c.Import.RulesPath); err != nil {
			return category.Config{}, err
		}
	}

	if c.Import.DefaultCategory != "" {
		cfg.Default = c.Import.DefaultCategory
	}

	return cfg, nil
}

func (c *Config) SignPolicy() extract.SignPolicy {
	if len(c.Import.CreditKeywords) == 0 {
		return extract.DefaultSignPolicy()
	}

	return extract.SignPolicy{CreditKeywords: c.Import.CreditKeywords}
}

func (c *Config) Locale() normalize.Locale {
	if c.Import.DayFirst {
		return normalize.LocaleDayFirst
	}

	return normalize.LocaleUS
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
