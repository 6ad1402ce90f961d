// Package config loads the bot configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// ErrNoConfig is returned when neither a config file nor flags were given,
// so the caller can fall back to the interactive setup wizard.
var ErrNoConfig = errors.New("no configuration provided")

// Config is the resolved bot configuration.
type Config struct {
	// Feed selects the market data platform: yahoo or binance.
	Feed string
	// PricerPlatform selects the venue for the secondary live-price read
	// used for pnl backfill: yahoo, binance or bybit. Empty disables the
	// backfill.
	PricerPlatform string
	// Strategy selects the decision engine: rulevote or classifier.
	Strategy string

	// Interval is the bar cadence, e.g. "15m".
	Interval string
	// Lookback is the fetched window size in bars.
	Lookback int
	// CycleInterval is the pause between orchestrator cycles.
	CycleInterval time.Duration

	// MinVotes is the rule-vote acceptance threshold.
	MinVotes int
	// ProbThreshold is the classifier acceptance threshold.
	ProbThreshold float64
	// ClassifierSeed fixes the synthetic training set.
	ClassifierSeed int64

	// Universe is the fixed instrument set evaluated every cycle.
	Universe []domain.Instrument

	// Accounts are the target trading accounts for paper placement.
	// Empty disables placement.
	Accounts []string

	// PipStop/PipTarget are the absolute exit offsets for FX instruments.
	PipStop   decimal.Decimal
	PipTarget decimal.Decimal
	// PercentStop/PercentTarget are the relative exit offsets for
	// metal/index/crypto instruments.
	PercentStop   decimal.Decimal
	PercentTarget decimal.Decimal

	TelegramToken  string
	TelegramChatID string

	// WebAddr is the dashboard listen address. Empty disables the dashboard.
	WebAddr string
	// WALDir is the signal journal directory.
	WALDir string
}

type instrumentTmp struct {
	Symbol string `yaml:"symbol"`
	Class  string `yaml:"class"`
}

// ConfigTmp is the yaml form of Config, also written by the setup wizard.
type ConfigTmp struct {
	Feed           string          `yaml:"feed"`
	PricerPlatform string          `yaml:"pricer,omitempty"`
	Strategy       string          `yaml:"strategy"`
	Interval       string          `yaml:"interval,omitempty"`
	Lookback       int             `yaml:"lookback,omitempty"`
	CycleInterval  time.Duration   `yaml:"cycle_interval,omitempty"`
	MinVotes       int             `yaml:"min_votes,omitempty"`
	ProbThreshold  float64         `yaml:"prob_threshold,omitempty"`
	ClassifierSeed int64           `yaml:"classifier_seed,omitempty"`
	Universe       []instrumentTmp `yaml:"universe,omitempty"`
	Accounts       []string        `yaml:"accounts,omitempty"`
	PipStop        string          `yaml:"pip_stop,omitempty"`
	PipTarget      string          `yaml:"pip_target,omitempty"`
	PercentStop    string          `yaml:"percent_stop,omitempty"`
	PercentTarget  string          `yaml:"percent_target,omitempty"`
	TelegramToken  string          `yaml:"telegram_token,omitempty"`
	TelegramChatID string          `yaml:"telegram_chat_id,omitempty"`
	WebAddr        string          `yaml:"web_addr,omitempty"`
	WALDir         string          `yaml:"wal_dir,omitempty"`
}

// DefaultUniverse is the original five-symbol universe: a metal, two
// indices and two FX pairs, in Yahoo ticker notation.
func DefaultUniverse() []domain.Instrument {
	return []domain.Instrument{
		{Symbol: "XAUUSD=X", Class: domain.ClassMetal},
		{Symbol: "^DJI", Class: domain.ClassIndex},
		{Symbol: "^NDX", Class: domain.ClassIndex},
		{Symbol: "EURUSD=X", Class: domain.ClassFX},
		{Symbol: "GBPUSD=X", Class: domain.ClassFX},
	}
}

// Get resolves the configuration from the --config flag or CLI flags.
// Without either it returns ErrNoConfig.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	feed := flag.String("feed", "", "market data platform: yahoo or binance")
	strategy := flag.String("strategy", "", "decision strategy: rulevote or classifier")
	cycleInterval := flag.Duration("cycleinterval", time.Minute, "pause between evaluation cycles")
	flag.Parse()

	if *configPath != "" {
		return Load(*configPath)
	}
	if *feed == "" && *strategy == "" {
		return Config{}, ErrNoConfig
	}

	conf := defaults()
	if *feed != "" {
		conf.Feed = *feed
	}
	if *strategy != "" {
		conf.Strategy = *strategy
	}
	conf.CycleInterval = *cycleInterval
	return conf, conf.validate()
}

// Load reads and resolves a YAML config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config file %s", path)
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse yaml config")
	}

	conf := defaults()
	if tmp.Feed != "" {
		conf.Feed = tmp.Feed
	}
	conf.PricerPlatform = tmp.PricerPlatform
	if tmp.Strategy != "" {
		conf.Strategy = tmp.Strategy
	}
	if tmp.Interval != "" {
		conf.Interval = tmp.Interval
	}
	if tmp.Lookback > 0 {
		conf.Lookback = tmp.Lookback
	}
	if tmp.CycleInterval > 0 {
		conf.CycleInterval = tmp.CycleInterval
	}
	if tmp.MinVotes > 0 {
		conf.MinVotes = tmp.MinVotes
	}
	if tmp.ProbThreshold > 0 {
		conf.ProbThreshold = tmp.ProbThreshold
	}
	if tmp.ClassifierSeed != 0 {
		conf.ClassifierSeed = tmp.ClassifierSeed
	}
	conf.Accounts = tmp.Accounts
	conf.TelegramToken = tmp.TelegramToken
	conf.TelegramChatID = tmp.TelegramChatID
	if tmp.WebAddr != "" {
		conf.WebAddr = tmp.WebAddr
	}
	if tmp.WALDir != "" {
		conf.WALDir = tmp.WALDir
	}

	if len(tmp.Universe) > 0 {
		conf.Universe = make([]domain.Instrument, 0, len(tmp.Universe))
		for _, in := range tmp.Universe {
			instrument, err := parseInstrument(in)
			if err != nil {
				return Config{}, err
			}
			conf.Universe = append(conf.Universe, instrument)
		}
	}

	for _, field := range []struct {
		raw  string
		dest *decimal.Decimal
		name string
	}{
		{tmp.PipStop, &conf.PipStop, "pip_stop"},
		{tmp.PipTarget, &conf.PipTarget, "pip_target"},
		{tmp.PercentStop, &conf.PercentStop, "percent_stop"},
		{tmp.PercentTarget, &conf.PercentTarget, "percent_target"},
	} {
		if field.raw == "" {
			continue
		}
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return Config{}, errors.Wrapf(err, "incorrect '%s' param in yaml config", field.name)
		}
		*field.dest = value
	}

	return conf, conf.validate()
}

func defaults() Config {
	return Config{
		Feed:           "yahoo",
		Strategy:       "rulevote",
		Interval:       "15m",
		Lookback:       250,
		CycleInterval:  time.Minute,
		MinVotes:       3,
		ProbThreshold:  0.6,
		ClassifierSeed: 1,
		Universe:       DefaultUniverse(),
		PipStop:        decimal.NewFromFloat(0.0050),
		PipTarget:      decimal.NewFromFloat(0.0100),
		PercentStop:    decimal.NewFromInt(1),
		PercentTarget:  decimal.NewFromInt(2),
		WebAddr:        ":8080",
		WALDir:         "",
	}
}

func (c Config) validate() error {
	switch c.Feed {
	case "yahoo", "binance":
	default:
		return fmt.Errorf("unsupported feed platform: %s", c.Feed)
	}
	switch c.PricerPlatform {
	case "", "yahoo", "binance", "bybit":
	default:
		return fmt.Errorf("unsupported pricer platform: %s", c.PricerPlatform)
	}
	switch c.Strategy {
	case "rulevote", "classifier":
	default:
		return fmt.Errorf("unsupported strategy: %s", c.Strategy)
	}
	if c.Lookback < 1 {
		return fmt.Errorf("lookback must be positive, got %d", c.Lookback)
	}
	if c.CycleInterval <= 0 {
		return fmt.Errorf("cycle interval must be positive, got %s", c.CycleInterval)
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("instrument universe is empty")
	}
	return nil
}

func parseInstrument(in instrumentTmp) (domain.Instrument, error) {
	if in.Symbol == "" {
		return domain.Instrument{}, fmt.Errorf("instrument symbol is required")
	}
	class := domain.InstrumentClass(strings.ToLower(in.Class))
	switch class {
	case domain.ClassFX, domain.ClassMetal, domain.ClassIndex, domain.ClassCrypto:
	default:
		return domain.Instrument{}, fmt.Errorf("unknown instrument class %q for %s", in.Class, in.Symbol)
	}
	return domain.Instrument{Symbol: in.Symbol, Class: class}, nil
}
