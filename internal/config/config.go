package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/awaketiger/internal/parser"
	"github.com/dgallion1/awaketiger/internal/report"
	"github.com/dgallion1/awaketiger/internal/scan"
	"github.com/dgallion1/awaketiger/internal/source"
	"github.com/spf13/viper"
)

// Keys shared by viper, env vars and cobra flags.
const (
	KeyInput          = "input"
	KeyOutput         = "output"
	KeyCodes          = "codes"
	KeyListing        = "listing"
	KeyListingEnc     = "listing_encoding"
	KeyQuarterCurrent = "quarter.current"
	KeyQuarterPrior   = "quarter.prior"
	KeyRender         = "render"
	KeyLinkTemplate   = "link_template"
	KeyMetricsFile    = "metrics_file"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
)

const EnvPrefix = "AWAKETIGER"

type Config struct {
	// Input document and rendered table
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`

	// Stock code index JSON, optionally rebuilt from a listing
	Codes           string `mapstructure:"codes"`
	Listing         string `mapstructure:"listing"`
	ListingEncoding string `mapstructure:"listing_encoding"`

	// Quarter labels; both empty means "compute from the clock"
	Quarter struct {
		Current string `mapstructure:"current"`
		Prior   string `mapstructure:"prior"`
	} `mapstructure:"quarter"`

	Render       string `mapstructure:"render"`
	LinkTemplate string `mapstructure:"link_template"`

	MetricsFile string `mapstructure:"metrics_file"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// New returns a viper instance with defaults and env binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyOutput, "./output.html")
	v.SetDefault(KeyCodes, "./stockcode.json")
	v.SetDefault(KeyListingEnc, source.EncodingEUCKR)
	v.SetDefault(KeyRender, string(report.VariantLink))
	v.SetDefault(KeyLinkTemplate, report.DefaultLinkTemplate)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	// AutomaticEnv only sees keys viper already knows about.
	for _, k := range []string{KeyInput, KeyListing, KeyQuarterCurrent, KeyQuarterPrior, KeyMetricsFile} {
		v.SetDefault(k, "")
	}
	return v
}

// Load reads an optional config file and decodes the merged settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Quarters resolves the labels to compare, computing both from now when
// neither is configured.
func (c Config) Quarters(now time.Time) (scan.Quarters, error) {
	cur, pre := c.Quarter.Current, c.Quarter.Prior
	switch {
	case cur == "" && pre == "":
		return scan.DefaultQuarters(now), nil
	case cur != "" && pre == "":
		q, err := scan.ParseQuarter(cur)
		if err != nil {
			return scan.Quarters{}, fmt.Errorf("current quarter: %w", err)
		}
		prior, err := q.YearAgo()
		if err != nil {
			return scan.Quarters{}, err
		}
		return scan.Quarters{Current: q, Prior: prior}, nil
	case cur == "":
		return scan.Quarters{}, errors.New("prior quarter set without current quarter")
	}

	q := scan.Quarters{Current: scan.QuarterLabel(cur), Prior: scan.QuarterLabel(pre)}
	if err := q.Validate(); err != nil {
		return scan.Quarters{}, err
	}
	return q, nil
}

// Validate checks settings needed by the scan command. now resolves the
// default quarters.
func (c Config) Validate(now time.Time) error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if !parser.IsSupportedExtension(source.BaseName(c.Input)) {
		return fmt.Errorf("unsupported input %q: want .html, .htm, .xml or .xhtml", c.Input)
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.Codes == "" {
		return fmt.Errorf("codes is required")
	}
	if _, err := report.ParseVariant(c.Render); err != nil {
		return err
	}
	if _, err := c.Quarters(now); err != nil {
		return err
	}
	return nil
}
