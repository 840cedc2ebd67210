// Package collect samples configured sources into reading snapshots.
package collect

import (
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
)

// Quantities selects which per-cycle values to sample.
type Quantities struct {
	Temperature bool
	Voltage     bool
	CJC         bool
}

func (q Quantities) Any() bool {
	return q.Temperature || q.Voltage || q.CJC
}

// InfoFields selects which static board data to gather.
type InfoFields struct {
	Serial          bool
	CalibrationDate bool
	Calibration     bool
	UpdateInterval  bool
}

func (f InfoFields) Any() bool {
	return f.Serial || f.CalibrationDate || f.Calibration || f.UpdateInterval
}

// Reading is one source's sampled values. A cleared Has flag means the
// quantity was not requested or its read failed.
type Reading struct {
	Key     string
	Address uint8
	Channel uint8

	Temperature float64
	Voltage     float64
	CJC         float64

	HasTemperature bool
	HasVoltage     bool
	HasCJC         bool
}

// BoardInfo is the static data of one board, plus the calibration
// coefficients of the channels that sources reference on it.
type BoardInfo struct {
	Address uint8

	Serial          string
	CalibrationDate string
	UpdateInterval  uint8

	HasSerial          bool
	HasCalibrationDate bool
	HasUpdateInterval  bool

	Calibrations map[uint8]hat.Calibration
}

// Collector samples all sources of a session. The reading buffer is
// sized once and reused across cycles, so a returned slice is only
// valid until the next Collect call.
type Collector struct {
	driver  hat.Driver
	sources []config.Source
	buf     []Reading
}

func New(driver hat.Driver, sources []config.Source) *Collector {
	return &Collector{
		driver:  driver,
		sources: sources,
		buf:     make([]Reading, 0, len(sources)),
	}
}

// Collect samples the requested quantities for every source. Each
// quantity is read independently; a failed read clears only its own
// flag. Collect never fails as a whole and never retries.
func (c *Collector) Collect(want Quantities) []Reading {
	c.buf = c.buf[:0]

	for i := range c.sources {
		source := &c.sources[i]
		reading := Reading{
			Key:     source.Key,
			Address: source.Address,
			Channel: source.Channel,
		}

		if want.Temperature {
			if value, err := c.driver.ReadTemperature(source.Address, source.Channel); err != nil {
				logReadMiss(source, "temperature", err)
			} else {
				reading.Temperature = value
				reading.HasTemperature = true
			}
		}
		if want.Voltage {
			if value, err := c.driver.ReadVoltage(source.Address, source.Channel); err != nil {
				logReadMiss(source, "voltage", err)
			} else {
				reading.Voltage = value
				reading.HasVoltage = true
			}
		}
		if want.CJC {
			if value, err := c.driver.ReadCJC(source.Address, source.Channel); err != nil {
				logReadMiss(source, "cjc", err)
			} else {
				reading.CJC = value
				reading.HasCJC = true
			}
		}

		c.buf = append(c.buf, reading)
	}

	return c.buf
}

// CollectInfo gathers the requested static data once per distinct board.
// Failures leave the corresponding Has flag cleared.
func (c *Collector) CollectInfo(want InfoFields) map[uint8]*BoardInfo {
	boards := make(map[uint8]*BoardInfo)

	for i := range c.sources {
		source := &c.sources[i]

		info, ok := boards[source.Address]
		if !ok {
			info = &BoardInfo{
				Address:      source.Address,
				Calibrations: make(map[uint8]hat.Calibration),
			}
			boards[source.Address] = info

			if want.Serial {
				if serial, err := c.driver.Serial(source.Address); err != nil {
					logInfoMiss(source.Address, "serial", err)
				} else {
					info.Serial = serial
					info.HasSerial = true
				}
			}
			if want.CalibrationDate {
				if date, err := c.driver.CalibrationDate(source.Address); err != nil {
					logInfoMiss(source.Address, "calibration date", err)
				} else {
					info.CalibrationDate = date
					info.HasCalibrationDate = true
				}
			}
			if want.UpdateInterval {
				if interval, err := c.driver.UpdateInterval(source.Address); err != nil {
					logInfoMiss(source.Address, "update interval", err)
				} else {
					info.UpdateInterval = interval
					info.HasUpdateInterval = true
				}
			}
		}

		if want.Calibration {
			if _, done := info.Calibrations[source.Channel]; !done {
				if cal, err := c.driver.ReadCalibration(source.Address, source.Channel); err != nil {
					logInfoMiss(source.Address, "calibration coefficients", err)
				} else {
					info.Calibrations[source.Channel] = cal
				}
			}
		}
	}

	return boards
}

func logReadMiss(source *config.Source, quantity string, err error) {
	logger.Debug().
		Str("key", source.Key).
		Uint8("address", source.Address).
		Uint8("channel", source.Channel).
		Str("quantity", quantity).
		Err(err).
		Msg("Read failed")
}

func logInfoMiss(address uint8, field string, err error) {
	logger.Warn().
		Uint8("address", address).
		Str("field", field).
		Err(err).
		Msg("Board info read failed")
}
