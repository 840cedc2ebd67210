package config

import (
	"fmt"

	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
)

// Factory-calibrated MCC 134 defaults. A slope/offset pair equal to these
// is never written back to the board.
const (
	DefaultCalibrationSlope  = 0.999560
	DefaultCalibrationOffset = -38.955465
	DefaultUpdateInterval    = 1
	DefaultTCType            = "K"
)

// FusedKey labels the single source of a fusion session when no key is given.
const FusedKey = "TEMP_FUSED"

// Source describes one thermocouple channel to acquire. Immutable after
// construction; loaders fill defaults before handing it out.
type Source struct {
	Key            string  `mapstructure:"key"             yaml:"key"`
	Address        uint8   `mapstructure:"address"         yaml:"address"`
	Channel        uint8   `mapstructure:"channel"         yaml:"channel"`
	TCType         string  `mapstructure:"tc_type"         yaml:"tc_type"`
	CalSlope       float64 `mapstructure:"cal_slope"       yaml:"cal_slope"`
	CalOffset      float64 `mapstructure:"cal_offset"      yaml:"cal_offset"`
	UpdateInterval int     `mapstructure:"update_interval" yaml:"update_interval"`
}

// DefaultKey is the source key used when a configuration omits one.
func DefaultKey(address, channel uint8) string {
	return fmt.Sprintf("TEMP_%d_%d", address, channel)
}

// NewSource builds a single source from CLI-level values, applying the
// same defaults as the file loader. An empty key selects DefaultKey.
func NewSource(key string, address, channel uint8, tcType string) Source {
	if key == "" {
		key = DefaultKey(address, channel)
	}
	if tcType == "" {
		tcType = DefaultTCType
	}

	return Source{
		Key:            key,
		Address:        address,
		Channel:        channel,
		TCType:         tcType,
		CalSlope:       DefaultCalibrationSlope,
		CalOffset:      DefaultCalibrationOffset,
		UpdateInterval: DefaultUpdateInterval,
	}
}

// TC returns the parsed thermocouple type. Only valid after Validate.
func (s Source) TC() hat.TCType {
	tc, err := hat.TCTypeFromString(s.TCType)
	if err != nil {
		return hat.TCDisabled
	}

	return tc
}

// Calibration returns the slope/offset pair.
func (s Source) Calibration() hat.Calibration {
	return hat.Calibration{Slope: s.CalSlope, Offset: s.CalOffset}
}

// HasDefaultCalibration reports whether the pair equals the factory default.
func (s Source) HasDefaultCalibration() bool {
	return s.CalSlope == DefaultCalibrationSlope && s.CalOffset == DefaultCalibrationOffset
}

// Validate checks bounds and the thermocouple type selector.
func (s Source) Validate() error {
	errFactory := errors.New()

	if s.Address >= hat.MaxBoards {
		return errFactory.WithData(errors.ErrInvalidSource, struct {
			Key     string
			Address uint8
		}{Key: s.Key, Address: s.Address})
	}
	if s.Channel >= hat.NumChannels {
		return errFactory.WithData(errors.ErrInvalidSource, struct {
			Key     string
			Channel uint8
		}{Key: s.Key, Channel: s.Channel})
	}
	if _, err := hat.TCTypeFromString(s.TCType); err != nil {
		return errFactory.Wrap(errors.ErrInvalidSource, err)
	}
	if s.UpdateInterval < 1 || s.UpdateInterval > 255 {
		return errFactory.WithData(errors.ErrInvalidSource, struct {
			Key      string
			Interval int
		}{Key: s.Key, Interval: s.UpdateInterval})
	}

	return nil
}
