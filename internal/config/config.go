// Package config loads source registries and session options from
// YAML or JSON files, with defaults filled for omitted fields.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/witt/thermoctl/internal/errors"
)

const (
	DefaultLogLevel   = "info"
	DefaultTimeFormat = "%Y-%m-%dT%H:%M:%S.%f"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// File is a parsed configuration file.
type File struct {
	LogLevel   string   `mapstructure:"log_level"`
	TimeFormat string   `mapstructure:"time_format"`
	Telemetry  bool     `mapstructure:"telemetry"`
	Database   string   `mapstructure:"database"`
	Sources    []Source `mapstructure:"sources"`
}

// rawSource mirrors Source with pointer fields so omitted keys can be
// told apart from zero values when applying defaults.
type rawSource struct {
	Key            string   `mapstructure:"key"`
	Address        *uint8   `mapstructure:"address"`
	Channel        *uint8   `mapstructure:"channel"`
	TCType         string   `mapstructure:"tc_type"`
	CalSlope       *float64 `mapstructure:"cal_slope"`
	CalOffset      *float64 `mapstructure:"cal_offset"`
	UpdateInterval *int     `mapstructure:"update_interval"`
}

// Load reads the configuration file at path. The format is inferred from
// the file extension (.yaml, .yml, or .json). Every source must name an
// address and a channel; everything else receives defaults.
func Load(path string) (*File, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("THERMOCTL")
	v.AutomaticEnv()

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("time_format", DefaultTimeFormat)

	if err := v.ReadInConfig(); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	cfg := &File{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	if !isValidLogLevel(cfg.LogLevel) {
		return nil, errFactory.WithData(errors.ErrInvalidLogLevel, struct {
			LogLevel string
		}{LogLevel: cfg.LogLevel})
	}

	var raws []rawSource
	if err := v.UnmarshalKey("sources", &raws); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	if len(raws) == 0 {
		return nil, errFactory.WithMessage(errors.ErrMissingConfig, "no sources defined")
	}

	cfg.Sources = cfg.Sources[:0]
	for i := range raws {
		source, err := resolveSource(&raws[i])
		if err != nil {
			return nil, err
		}
		cfg.Sources = append(cfg.Sources, source)
	}

	return cfg, nil
}

// resolveSource fills defaults and validates one raw entry.
func resolveSource(raw *rawSource) (Source, error) {
	errFactory := errors.New()

	if raw.Address == nil || raw.Channel == nil {
		return Source{}, errFactory.WithData(errors.ErrInvalidSource, struct {
			Key     string
			Missing string
		}{Key: raw.Key, Missing: "address and channel are required"})
	}

	source := Source{
		Key:            raw.Key,
		Address:        *raw.Address,
		Channel:        *raw.Channel,
		TCType:         raw.TCType,
		CalSlope:       DefaultCalibrationSlope,
		CalOffset:      DefaultCalibrationOffset,
		UpdateInterval: DefaultUpdateInterval,
	}
	if source.Key == "" {
		source.Key = DefaultKey(source.Address, source.Channel)
	}
	if source.TCType == "" {
		source.TCType = DefaultTCType
	}
	if raw.CalSlope != nil {
		source.CalSlope = *raw.CalSlope
	}
	if raw.CalOffset != nil {
		source.CalOffset = *raw.CalOffset
	}
	if raw.UpdateInterval != nil {
		source.UpdateInterval = *raw.UpdateInterval
	}

	if err := source.Validate(); err != nil {
		return Source{}, err
	}

	return source, nil
}

func isValidLogLevel(level string) bool {
	for _, valid := range validLogLevels {
		if strings.EqualFold(level, valid) {
			return true
		}
	}

	return false
}
