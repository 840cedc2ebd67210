// Package hattest provides an in-memory Driver for tests.
package hattest

import (
	"fmt"

	"codeberg.org/witt/thermoctl/internal/hat"
)

// Key addresses one channel of one board.
type Key struct {
	Address uint8
	Channel uint8
}

// IntervalWrite records one update-interval write.
type IntervalWrite struct {
	Address uint8
	Seconds uint8
}

// TCTypeWrite records one thermocouple-type write.
type TCTypeWrite struct {
	Address uint8
	Channel uint8
	TC      hat.TCType
}

// CalWrite records one calibration write.
type CalWrite struct {
	Address uint8
	Channel uint8
	Cal     hat.Calibration
}

// Fake implements hat.Driver entirely in memory. Reads are served from
// the value maps; a missing entry or a FailRead mark makes the read fail.
// Every mutating call is recorded so tests can assert call counts and
// ordering.
type Fake struct {
	Boards []hat.BoardID

	FailOpen map[uint8]bool
	FailRead map[Key]bool

	Temperatures map[Key]float64
	Voltages     map[Key]float64
	CJCs         map[Key]float64

	Serials   map[uint8]string
	CalDates  map[uint8]string
	Cals      map[Key]hat.Calibration
	Intervals map[uint8]uint8

	OpenCalls      []uint8
	CloseCalls     []uint8
	IntervalWrites []IntervalWrite
	TCTypeWrites   []TCTypeWrite
	CalWrites      []CalWrite

	open map[uint8]bool
}

// New returns an empty Fake with all maps initialized.
func New() *Fake {
	return &Fake{
		FailOpen:     make(map[uint8]bool),
		FailRead:     make(map[Key]bool),
		Temperatures: make(map[Key]float64),
		Voltages:     make(map[Key]float64),
		CJCs:         make(map[Key]float64),
		Serials:      make(map[uint8]string),
		CalDates:     make(map[uint8]string),
		Cals:         make(map[Key]hat.Calibration),
		Intervals:    make(map[uint8]uint8),
		open:         make(map[uint8]bool),
	}
}

// SetTemperature scripts the temperature served for one channel.
func (f *Fake) SetTemperature(address, channel uint8, value float64) {
	f.Temperatures[Key{address, channel}] = value
}

func (f *Fake) List() ([]hat.BoardID, error) {
	return f.Boards, nil
}

func (f *Fake) Open(address uint8) error {
	f.OpenCalls = append(f.OpenCalls, address)
	if f.FailOpen[address] {
		return fmt.Errorf("fake: open %d failed", address)
	}
	f.open[address] = true

	return nil
}

func (f *Fake) Close(address uint8) error {
	f.CloseCalls = append(f.CloseCalls, address)
	delete(f.open, address)

	return nil
}

func (f *Fake) IsOpen(address uint8) bool {
	return f.open[address]
}

func (f *Fake) Serial(address uint8) (string, error) {
	serial, ok := f.Serials[address]
	if !ok {
		return "", fmt.Errorf("fake: no serial for %d", address)
	}

	return serial, nil
}

func (f *Fake) CalibrationDate(address uint8) (string, error) {
	date, ok := f.CalDates[address]
	if !ok {
		return "", fmt.Errorf("fake: no calibration date for %d", address)
	}

	return date, nil
}

func (f *Fake) ReadCalibration(address, channel uint8) (hat.Calibration, error) {
	cal, ok := f.Cals[Key{address, channel}]
	if !ok {
		return hat.Calibration{}, fmt.Errorf("fake: no calibration for %d/%d", address, channel)
	}

	return cal, nil
}

func (f *Fake) WriteCalibration(address, channel uint8, cal hat.Calibration) error {
	f.CalWrites = append(f.CalWrites, CalWrite{Address: address, Channel: channel, Cal: cal})
	f.Cals[Key{address, channel}] = cal

	return nil
}

func (f *Fake) UpdateInterval(address uint8) (uint8, error) {
	interval, ok := f.Intervals[address]
	if !ok {
		return 0, fmt.Errorf("fake: no interval for %d", address)
	}

	return interval, nil
}

func (f *Fake) SetUpdateInterval(address, seconds uint8) error {
	f.IntervalWrites = append(f.IntervalWrites, IntervalWrite{Address: address, Seconds: seconds})
	f.Intervals[address] = seconds

	return nil
}

func (f *Fake) SetTCType(address, channel uint8, tc hat.TCType) error {
	f.TCTypeWrites = append(f.TCTypeWrites, TCTypeWrite{Address: address, Channel: channel, TC: tc})

	return nil
}

func (f *Fake) ReadTemperature(address, channel uint8) (float64, error) {
	return f.read(f.Temperatures, address, channel)
}

func (f *Fake) ReadVoltage(address, channel uint8) (float64, error) {
	return f.read(f.Voltages, address, channel)
}

func (f *Fake) ReadCJC(address, channel uint8) (float64, error) {
	return f.read(f.CJCs, address, channel)
}

func (f *Fake) read(values map[Key]float64, address, channel uint8) (float64, error) {
	k := Key{address, channel}
	if f.FailRead[k] {
		return 0, fmt.Errorf("fake: read %d/%d failed", address, channel)
	}
	value, ok := values[k]
	if !ok {
		return 0, fmt.Errorf("fake: no value for %d/%d", address, channel)
	}

	return value, nil
}

var _ hat.Driver = (*Fake)(nil)
