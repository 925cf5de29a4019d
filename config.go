package satsnav

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file based configuration of a run.
type Config struct {
	Base                Asset
	Policy              ConsumptionPolicy
	TransferWindow      time.Duration
	DustTolerance       int64
	ConsolidateUnpriced bool
	Tracked             Asset  // asset of the history and recap
	Entries             string // path of the entries file
	EntriesPath         string // JSONPath of the entries inside the file
	Overrides           string // path of the rate overrides file
}

// configTmp is the YAML layout of Config.
type configTmp struct {
	Base                string        `yaml:"base"`
	Policy              string        `yaml:"policy"`
	TransferWindow      time.Duration `yaml:"transfer_window"`
	DustTolerance       int64         `yaml:"dust_tolerance"`
	ConsolidateUnpriced bool          `yaml:"consolidate_unpriced"`
	Tracked             string        `yaml:"tracked"`
	Entries             string        `yaml:"entries"`
	EntriesPath         string        `yaml:"entries_path"`
	Overrides           string        `yaml:"overrides"`
}

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() Config {
	return Config{
		Base:           DefaultBase,
		Policy:         LIFO,
		TransferWindow: DefaultTransferWindow,
		DustTolerance:  DefaultDustTolerance,
		Tracked:        NewAsset("BTC", Crypto),
		Entries:        "entries.jsonl",
	}
}

// DecodeConfig reads a YAML configuration. Missing keys keep their default.
func DecodeConfig(r io.Reader) (Config, error) {
	var tmp configTmp
	if err := yaml.NewDecoder(r).Decode(&tmp); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	c := DefaultConfig()
	var err error
	if tmp.Base != "" {
		if c.Base, err = ParseAsset(tmp.Base); err != nil {
			return Config{}, errors.Wrap(err, "invalid base")
		}
	}
	if tmp.Policy != "" {
		if c.Policy, err = ParseConsumptionPolicy(tmp.Policy); err != nil {
			return Config{}, err
		}
	}
	if tmp.TransferWindow != 0 {
		c.TransferWindow = tmp.TransferWindow
	}
	if tmp.DustTolerance != 0 {
		c.DustTolerance = tmp.DustTolerance
	}
	c.ConsolidateUnpriced = tmp.ConsolidateUnpriced
	if tmp.Tracked != "" {
		if c.Tracked, err = ParseAsset(tmp.Tracked); err != nil {
			return Config{}, errors.Wrap(err, "invalid tracked asset")
		}
	}
	if tmp.Entries != "" {
		c.Entries = tmp.Entries
	}
	c.EntriesPath = tmp.EntriesPath
	c.Overrides = tmp.Overrides
	return c, nil
}

// Options returns the run options of the configuration.
func (c Config) Options(overrides RateOverrides, logger *zap.Logger) Options {
	return Options{
		Base:                c.Base,
		Policy:              c.Policy,
		TransferWindow:      c.TransferWindow,
		DustTolerance:       c.DustTolerance,
		ConsolidateUnpriced: c.ConsolidateUnpriced,
		Overrides:           overrides,
		Logger:              logger,
	}
}
