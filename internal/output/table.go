package output

import (
	"fmt"

	"github.com/fatih/color"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/hat"
)

var (
	keyStyle      = color.New(color.FgCyan, color.Bold)
	sentinelStyle = color.New(color.FgRed)
)

// sentinelName maps the board's abnormal-channel temperatures to their
// display names.
func sentinelName(value float64) (string, bool) {
	switch value {
	case hat.OpenSensorValue:
		return "OPEN", true
	case hat.OverrangeValue:
		return "OVERRANGE", true
	case hat.CommonModeValue:
		return "COMMON_MODE_ERROR", true
	default:
		return "", false
	}
}

func (w *Writer) writeTable(readings []collect.Reading, boards map[uint8]*collect.BoardInfo) error {
	for i := range readings {
		reading := &readings[i]

		if w.clean {
			if err := w.writeCleanRow(reading); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			fmt.Fprintln(w.out)
		}
		keyStyle.Fprintf(w.out, "%s", reading.Key)
		fmt.Fprintf(w.out, " (board %d, channel %d)\n", reading.Address, reading.Channel)

		if board := boards[reading.Address]; board != nil {
			w.writeBoardRows(board, reading.Channel)
		}

		if reading.HasTemperature {
			w.writeTemperatureRow("TEMPERATURE", reading.Temperature)
		}
		if reading.HasVoltage {
			fmt.Fprintf(w.out, "  %-16s %.6f V\n", "ADC", reading.Voltage)
		}
		if reading.HasCJC {
			fmt.Fprintf(w.out, "  %-16s %.6f degC\n", "CJC", reading.CJC)
		}
	}

	return nil
}

// writeCleanRow emits "KEY VALUE" pairs with no decoration.
func (w *Writer) writeCleanRow(reading *collect.Reading) error {
	if reading.HasTemperature {
		if name, ok := sentinelName(reading.Temperature); ok {
			fmt.Fprintf(w.out, "%s %s\n", reading.Key, name)
		} else {
			fmt.Fprintf(w.out, "%s %.6f\n", reading.Key, reading.Temperature)
		}
	}
	if reading.HasVoltage {
		fmt.Fprintf(w.out, "%s_ADC %.6f\n", reading.Key, reading.Voltage)
	}
	if reading.HasCJC {
		fmt.Fprintf(w.out, "%s_CJC %.6f\n", reading.Key, reading.CJC)
	}

	return nil
}

func (w *Writer) writeTemperatureRow(label string, value float64) {
	if name, ok := sentinelName(value); ok {
		fmt.Fprintf(w.out, "  %-16s ", label)
		sentinelStyle.Fprintln(w.out, name)
		return
	}
	fmt.Fprintf(w.out, "  %-16s %.6f degC\n", label, value)
}

func (w *Writer) writeBoardRows(board *collect.BoardInfo, channel uint8) {
	if board.HasSerial {
		fmt.Fprintf(w.out, "  %-16s %s\n", "SERIAL", board.Serial)
	}
	if board.HasCalibrationDate {
		fmt.Fprintf(w.out, "  %-16s %s\n", "CAL DATE", board.CalibrationDate)
	}
	if cal, ok := board.Calibrations[channel]; ok {
		fmt.Fprintf(w.out, "  %-16s %.6f\n", "CAL SLOPE", cal.Slope)
		fmt.Fprintf(w.out, "  %-16s %.6f\n", "CAL OFFSET", cal.Offset)
	}
	if board.HasUpdateInterval {
		fmt.Fprintf(w.out, "  %-16s %d s\n", "UPDATE INTERVAL", board.UpdateInterval)
	}
}

func (w *Writer) writeBoardTable(boards []hat.BoardID) error {
	if len(boards) == 0 {
		fmt.Fprintln(w.out, "No boards detected")
		return nil
	}

	fmt.Fprintf(w.out, "%-8s %s\n", "ADDRESS", "PRODUCT")
	for _, b := range boards {
		fmt.Fprintf(w.out, "%-8d %s\n", b.Address, b.Product)
	}

	return nil
}
