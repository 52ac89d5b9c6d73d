package pricing

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/shopsync/shopsync/pkg/errors"
)

// RulesConfig is the YAML shape of a pricing rules file.
//
//	markup_percent: 15
//	round_up_to: 10
//	price_tolerance: 0.5
type RulesConfig struct {
	MarkupPercent  float64 `yaml:"markup_percent"`
	RoundUpTo      float64 `yaml:"round_up_to"`
	PriceTolerance float64 `yaml:"price_tolerance"`
}

// Rule builds the pricing rule described by the config: markup first,
// then rounding. An all-zero config yields the identity rule.
func (c *RulesConfig) Rule() Rule {
	rules := []Rule{}
	if c.MarkupPercent != 0 {
		rules = append(rules, Markup(c.MarkupPercent))
	}
	if c.RoundUpTo > 0 {
		rules = append(rules, RoundUpTo(c.RoundUpTo))
	}
	if len(rules) == 0 {
		return Identity()
	}
	return Chain(rules...)
}

// LoadRules reads a pricing rules file.
func LoadRules(path string) (*RulesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("pricing", "reading rules file "+path, err)
	}
	return ParseRules(data)
}

// ParseRules decodes pricing rules from YAML.
func ParseRules(data []byte) (*RulesConfig, error) {
	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("pricing", "decoding rules", err)
	}
	if cfg.PriceTolerance < 0 {
		return nil, errors.NewConfigError("pricing", "price_tolerance must not be negative", nil)
	}
	return &cfg, nil
}
