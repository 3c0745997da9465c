package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dealdesk-dev/dealdesk/internal/gross"
	"github.com/dealdesk-dev/dealdesk/internal/model"
	"github.com/dealdesk-dev/dealdesk/internal/ratetable"
)

// Config represents the top-level dealdesk.yaml configuration.
type Config struct {
	Dealership   DealershipConfig    `yaml:"dealership"`
	Desking      DeskingConfig       `yaml:"desking"`
	TaxTable     []JurisdictionRates `yaml:"tax_table,omitempty"`
	DefaultRates JurisdictionRates   `yaml:"default_rates"`
	Git          GitConfig           `yaml:"git"`
}

// DealershipConfig identifies the store.
type DealershipConfig struct {
	Name      string `yaml:"name"`
	StoreCode string `yaml:"store_code"`
}

// DeskingConfig holds desking and gross-profit policy knobs.
type DeskingConfig struct {
	DefaultDocFee     float64            `yaml:"default_doc_fee"`
	DefaultTermMonths int                `yaml:"default_term_months"`
	ReserveSpread     float64            `yaml:"reserve_spread"` // fractional, e.g. 0.02
	PackCosts         map[string]float64 `yaml:"pack_costs"`
}

// JurisdictionRates maps a postal prefix to its tax rate and title fee.
// TaxRate is percent-of-100 (8.25 means 8.25%). An empty prefix is only
// valid for DefaultRates.
type JurisdictionRates struct {
	Prefix   string  `yaml:"prefix,omitempty"`
	TaxRate  float64 `yaml:"tax_rate"`
	TitleFee float64 `yaml:"title_fee"`
}

// GitConfig controls git integration for the books repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a dealdesk.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new store.
func Default(name, storeCode string) *Config {
	return &Config{
		Dealership: DealershipConfig{
			Name:      name,
			StoreCode: storeCode,
		},
		Desking: DeskingConfig{
			DefaultDocFee:     599,
			DefaultTermMonths: 60,
			ReserveSpread:     0.02,
			PackCosts: map[string]float64{
				string(model.CategoryNew):       500,
				string(model.CategoryUsed):      300,
				string(model.CategoryCertified): 400,
			},
		},
		DefaultRates: JurisdictionRates{TaxRate: 7.00, TitleFee: 75},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Dealdesk",
			AuthorEmail: "books@dealdesk.dev",
		},
	}
}

// RateTable builds the resolver table: configured jurisdictions layered
// over the built-in defaults.
func (c *Config) RateTable() ratetable.Table {
	if len(c.TaxTable) == 0 && c.DefaultRates == (JurisdictionRates{}) {
		return ratetable.DefaultTable()
	}

	prefixes := make(map[string]ratetable.Rates, len(c.TaxTable))
	for _, j := range c.TaxTable {
		prefixes[j.Prefix] = ratetable.Rates{
			TaxRate:  decimal.NewFromFloat(j.TaxRate),
			TitleFee: decimal.NewFromFloat(j.TitleFee),
		}
	}

	fallback := ratetable.DefaultTable().Fallback()
	if c.DefaultRates != (JurisdictionRates{}) {
		fallback = ratetable.Rates{
			TaxRate:  decimal.NewFromFloat(c.DefaultRates.TaxRate),
			TitleFee: decimal.NewFromFloat(c.DefaultRates.TitleFee),
		}
	}

	if len(prefixes) == 0 {
		// Keep the built-in jurisdictions, override only the fallback.
		return ratetable.New(builtinPrefixes(), fallback)
	}
	return ratetable.New(prefixes, fallback)
}

func builtinPrefixes() map[string]ratetable.Rates {
	t := ratetable.DefaultTable()
	prefixes := make(map[string]ratetable.Rates)
	for _, p := range []string{
		"90", "91", "92", "93", "94", "95",
		"75", "76", "77", "78", "79",
		"32", "33", "34",
		"10", "11", "12", "13", "14",
		"60", "61", "62",
	} {
		prefixes[p] = t.Resolve(p)
	}
	return prefixes
}

// DefaultDocFee returns the doc fee applied to new deals.
func (c *Config) DefaultDocFee() decimal.Decimal {
	return decimal.NewFromFloat(c.Desking.DefaultDocFee)
}

// ReserveSpread returns the configured finance-reserve spread as a
// decimal fraction.
func (c *Config) ReserveSpread() decimal.Decimal {
	if c.Desking.ReserveSpread == 0 {
		return gross.DefaultReserveSpread
	}
	return decimal.NewFromFloat(c.Desking.ReserveSpread)
}

// PackCosts returns the configured pack-cost table keyed by vehicle
// category.
func (c *Config) PackCosts() map[model.VehicleCategory]decimal.Decimal {
	if len(c.Desking.PackCosts) == 0 {
		return gross.DefaultPackCosts()
	}
	out := make(map[model.VehicleCategory]decimal.Decimal, len(c.Desking.PackCosts))
	for k, v := range c.Desking.PackCosts {
		out[model.VehicleCategory(k)] = decimal.NewFromFloat(v)
	}
	return out
}
