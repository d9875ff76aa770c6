package category

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule assigns Name to any description containing one of Keywords.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Config is an ordered keyword table. Earlier rules win over later ones.
type Config struct {
	Rules   []Rule `yaml:"rules"`
	Default string `yaml:"default"`
}

const DefaultName = "Other"

func DefaultConfig() Config {
	return Config{
		Rules: []Rule{
			{Name: "Food", Keywords: []string{"restaurant", "grocery", "food", "cafe", "dinner", "lunch"}},
			{Name: "Transport", Keywords: []string{"taxi", "bus", "train", "gas", "parking"}},
			{Name: "Entertainment", Keywords: []string{"movie", "game", "concert", "party"}},
			{Name: "Utilities", Keywords: []string{"electricity", "water", "internet", "phone"}},
			{Name: "Shopping", Keywords: []string{"clothes", "shoes", "amazon", "store"}},
		},
		Default: DefaultName,
	}
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading keyword table: %w", err)
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing keyword table: %w", err)
	}

	if strings.TrimSpace(cfg.Default) == "" {
		cfg.Default = DefaultName
	}

	for i, r := range cfg.Rules {
		if strings.TrimSpace(r.Name) == "" {
			return Config{}, fmt.Errorf("rule %d: missing name", i)
		}
	}

	return cfg, nil
}
