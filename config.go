package transitory

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCurrency is the currency of the report amounts.
const DefaultCurrency = "BRL"

// Config parameterizes a reconciliation run.
type Config struct {
	// Aliases are the column name patterns of each field.
	Aliases Aliases
	// Epsilon is the tolerance under which a difference counts as zero.
	Epsilon decimal.Decimal
	// FirstNoteOnly keeps only the best note id of each narration.
	FirstNoteOnly bool
	// InvoiceMarkers announce an invoice number in a narration (e.g. "NF").
	InvoiceMarkers []string
	// Currency is the ISO code used to display amounts.
	Currency string
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Aliases:        DefaultAliases(),
		Epsilon:        DefaultEpsilon,
		FirstNoteOnly:  true,
		InvoiceMarkers: DefaultInvoiceMarkers,
		Currency:       DefaultCurrency,
	}
}

// configFile is the YAML layout of a configuration or of one of its profiles.
type configFile struct {
	Epsilon        *float64            `yaml:"epsilon"`
	FirstNoteOnly  *bool               `yaml:"firstNoteOnly"`
	Currency       string              `yaml:"currency"`
	InvoiceMarkers []string            `yaml:"invoiceMarkers"`
	Aliases        map[string][]string `yaml:"aliases"`
}

// apply overrides cfg with the values set in f.
func (f *configFile) apply(cfg *Config) error {
	if f.Epsilon != nil {
		if *f.Epsilon < 0 {
			return fmt.Errorf("epsilon must not be negative: %v", *f.Epsilon)
		}
		cfg.Epsilon = decimal.NewFromFloat(*f.Epsilon)
	}
	if f.FirstNoteOnly != nil {
		cfg.FirstNoteOnly = *f.FirstNoteOnly
	}
	if f.Currency != "" {
		cfg.Currency = strings.ToUpper(f.Currency)
	}
	if len(f.InvoiceMarkers) > 0 {
		cfg.InvoiceMarkers = f.InvoiceMarkers
	}
	for name, patterns := range f.Aliases {
		field, err := ParseField(name)
		if err != nil {
			return fmt.Errorf("aliases: %w", err)
		}
		cfg.Aliases[field] = patterns
	}
	return nil
}

// DecodeConfig reads a YAML configuration from r on top of DefaultConfig.
//
// If profile is not empty, the entries of "profiles.<profile>" then override
// the top level ones.
func DecodeConfig(r io.Reader, profile string) (Config, error) {
	cfg := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var base configFile
	if err := yaml.Unmarshal(data, &base); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := base.apply(&cfg); err != nil {
		return cfg, err
	}
	if profile == "" {
		return cfg, nil
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if doc == nil {
		return cfg, fmt.Errorf("unknown profile %q: config is empty", profile)
	}
	selected, err := jsonpath.Get("$.profiles."+profile, doc)
	if err != nil {
		return cfg, fmt.Errorf("unknown profile %q: %w", profile, err)
	}
	if selected == nil {
		return cfg, fmt.Errorf("profile %q is empty", profile)
	}
	raw, err := yaml.Marshal(selected)
	if err != nil {
		return cfg, fmt.Errorf("profile %q: %w", profile, err)
	}
	var over configFile
	if err := yaml.Unmarshal(raw, &over); err != nil {
		return cfg, fmt.Errorf("profile %q: %w", profile, err)
	}
	if err := over.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("profile %q: %w", profile, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used for a run.
func (c Config) Validate() error {
	if c.Epsilon.IsNegative() {
		return errors.New("epsilon must not be negative")
	}
	if _, err := c.Aliases.compile(); err != nil {
		return err
	}
	for _, f := range mandatory {
		if len(c.Aliases[f]) == 0 {
			return fmt.Errorf("no alias for mandatory field %s", f)
		}
	}
	return nil
}
