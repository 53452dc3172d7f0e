package main

import (
	"errors"
	"fmt"
	"strings"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	"github.com/ariya/phantomjs-sub051/html/layout"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// Config is the resolved configuration of a run.
type Config struct {
	Width            float64 `mapstructure:"width"`
	Height           float64 `mapstructure:"height"`
	PageHeight       float64 `mapstructure:"page-height"`
	Quirks           bool    `mapstructure:"quirks"`
	ColumnRebalances int     `mapstructure:"column-rebalances"`
	LogLevel         string  `mapstructure:"log-level"`
	Format           string  `mapstructure:"format"`
}

// configKeys are bound to the flags of the same name.
var configKeys = []string{"width", "height", "page-height", "quirks", "column-rebalances", "log-level", "format"}

func registerFlags(flags *pflag.FlagSet) {
	def := layout.DefaultOptions()
	flags.Float64("width", float64(def.ViewportWidth), "viewport width, in pixels")
	flags.Float64("height", float64(def.ViewportHeight), "viewport height, in pixels")
	flags.Float64("page-height", 0, "paginate the documents in pages of this height (0 disables pagination)")
	flags.Bool("quirks", false, "force the quirks mode margin rules")
	flags.Int("column-rebalances", def.MaxColumnRebalances, "corrective passes allowed when balancing columns")
	flags.String("log-level", "warn", "minimum log level (debug, info, warn, error)")
	flags.StringP("format", "f", formatText, "output format: text or json")
	flags.StringP("config", "c", "", "config file (default is ./layoutdump.yaml)")
}

// loadConfig merges the flags, the environment and the config file.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	for _, key := range configKeys {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return Config{}, fmt.Errorf("binding flag %s: %w", key, err)
		}
	}

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("layoutdump")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("LAYOUTDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid viewport %gx%g", cfg.Width, cfg.Height)
	}
	if cfg.PageHeight < 0 {
		return fmt.Errorf("invalid page height %g", cfg.PageHeight)
	}
	if cfg.ColumnRebalances < 0 {
		return fmt.Errorf("invalid column rebalances %d", cfg.ColumnRebalances)
	}
	switch cfg.Format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// options returns fresh layout options: the text measurer is not
// shared between concurrent layouts.
func (cfg Config) options() layout.Options {
	opts := layout.DefaultOptions()
	opts.ViewportWidth = pr.Float(cfg.Width)
	opts.ViewportHeight = pr.Float(cfg.Height)
	opts.PageHeight = pr.Float(cfg.PageHeight)
	opts.Quirks = cfg.Quirks
	opts.MaxColumnRebalances = cfg.ColumnRebalances
	return opts
}
