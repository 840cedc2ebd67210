//go:build !daqhats

package hat

import "codeberg.org/witt/thermoctl/internal/errors"

// unsupported stands in for the hardware driver when the binary is
// built without the daqhats tag. Every operation fails; board access
// requires building with -tags daqhats on a machine with libdaqhats.
type unsupported struct{}

// NewDriver returns the stub driver.
func NewDriver() Driver {
	return unsupported{}
}

func (unsupported) err() error {
	return errors.New().WithMessage(errors.ErrInternal,
		"built without daqhats support, rebuild with -tags daqhats")
}

func (u unsupported) List() ([]BoardID, error) { return nil, u.err() }
func (u unsupported) Open(uint8) error         { return u.err() }
func (u unsupported) Close(uint8) error        { return u.err() }
func (unsupported) IsOpen(uint8) bool          { return false }

func (u unsupported) Serial(uint8) (string, error)          { return "", u.err() }
func (u unsupported) CalibrationDate(uint8) (string, error) { return "", u.err() }

func (u unsupported) ReadCalibration(_, _ uint8) (Calibration, error) {
	return Calibration{}, u.err()
}
func (u unsupported) WriteCalibration(_, _ uint8, _ Calibration) error { return u.err() }
func (u unsupported) UpdateInterval(uint8) (uint8, error)              { return 0, u.err() }
func (u unsupported) SetUpdateInterval(_, _ uint8) error               { return u.err() }
func (u unsupported) SetTCType(_, _ uint8, _ TCType) error             { return u.err() }

func (u unsupported) ReadTemperature(_, _ uint8) (float64, error) { return 0, u.err() }
func (u unsupported) ReadVoltage(_, _ uint8) (float64, error)     { return 0, u.err() }
func (u unsupported) ReadCJC(_, _ uint8) (float64, error)         { return 0, u.err() }
