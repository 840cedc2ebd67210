package hat

// MCC 134 geometry.
const (
	MaxBoards   = 8
	NumChannels = 4
)

// Sentinel temperatures returned by the board for abnormal channels.
const (
	OpenSensorValue = -9999.0
	OverrangeValue  = -8888.0
	CommonModeValue = -7777.0
)

// Calibration is the linear correction applied to a channel's conversion.
type Calibration struct {
	Slope  float64
	Offset float64
}

// BoardID identifies one detected board.
type BoardID struct {
	Address uint8
	Product string
}

// Driver abstracts the board primitives for testing. The real
// implementation binds libdaqhats; everything above it (board manager,
// collector, bridge) only sees this interface.
type Driver interface {
	// Discovery
	List() ([]BoardID, error)

	// Lifecycle
	Open(address uint8) error
	Close(address uint8) error
	IsOpen(address uint8) bool

	// Static board data (board must be open)
	Serial(address uint8) (string, error)
	CalibrationDate(address uint8) (string, error)
	ReadCalibration(address, channel uint8) (Calibration, error)
	WriteCalibration(address, channel uint8, cal Calibration) error
	UpdateInterval(address uint8) (uint8, error)
	SetUpdateInterval(address, seconds uint8) error
	SetTCType(address, channel uint8, tc TCType) error

	// Acquisition (board must be open; TC type set for temperature/voltage)
	ReadTemperature(address, channel uint8) (float64, error)
	ReadVoltage(address, channel uint8) (float64, error)
	ReadCJC(address, channel uint8) (float64, error)
}
