// Package output renders readings and board info as JSON lines or
// aligned tables.
package output

import (
	"encoding/json"
	"io"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/hat"
)

// Writer renders acquisition output to a stream. JSON mode emits one
// JSON value per line; otherwise a table is printed. Clean mode strips
// table separators for easy line-oriented parsing.
type Writer struct {
	out   io.Writer
	json  bool
	clean bool
}

func NewWriter(out io.Writer, jsonMode, clean bool) *Writer {
	return &Writer{out: out, json: jsonMode, clean: clean}
}

type calibrationRecord struct {
	Date   string   `json:"DATE,omitempty"`
	Slope  *float64 `json:"SLOPE,omitempty"`
	Offset *float64 `json:"OFFSET,omitempty"`
}

// record is one source's output object. Field order matches the wire
// shape; absent quantities are omitted, never null.
type record struct {
	Key            string             `json:"KEY"`
	Address        uint8              `json:"ADDRESS"`
	Channel        uint8              `json:"CHANNEL"`
	Serial         string             `json:"SERIAL,omitempty"`
	Calibration    *calibrationRecord `json:"CALIBRATION,omitempty"`
	UpdateInterval *uint8             `json:"UPDATE_INTERVAL,omitempty"`
	Temperature    *float64           `json:"TEMPERATURE,omitempty"`
	ADC            *float64           `json:"ADC,omitempty"`
	CJC            *float64           `json:"CJC,omitempty"`
}

// WriteReadings renders one cycle. boards may be nil; when present its
// static fields are merged into each source's record.
func (w *Writer) WriteReadings(readings []collect.Reading, boards map[uint8]*collect.BoardInfo) error {
	if w.json {
		return w.writeJSON(readings, boards)
	}

	return w.writeTable(readings, boards)
}

func (w *Writer) writeJSON(readings []collect.Reading, boards map[uint8]*collect.BoardInfo) error {
	records := make([]record, 0, len(readings))
	for i := range readings {
		records = append(records, newRecord(&readings[i], boards[readings[i].Address]))
	}

	encoder := json.NewEncoder(w.out)
	if len(records) == 1 {
		return encoder.Encode(records[0])
	}

	return encoder.Encode(records)
}

func newRecord(reading *collect.Reading, board *collect.BoardInfo) record {
	rec := record{
		Key:     reading.Key,
		Address: reading.Address,
		Channel: reading.Channel,
	}

	if board != nil {
		if board.HasSerial {
			rec.Serial = board.Serial
		}
		cal, hasCal := board.Calibrations[reading.Channel]
		if board.HasCalibrationDate || hasCal {
			calRec := &calibrationRecord{}
			if board.HasCalibrationDate {
				calRec.Date = board.CalibrationDate
			}
			if hasCal {
				calRec.Slope = ptr(cal.Slope)
				calRec.Offset = ptr(cal.Offset)
			}
			rec.Calibration = calRec
		}
		if board.HasUpdateInterval {
			interval := board.UpdateInterval
			rec.UpdateInterval = &interval
		}
	}

	if reading.HasTemperature {
		rec.Temperature = ptr(reading.Temperature)
	}
	if reading.HasVoltage {
		rec.ADC = ptr(reading.Voltage)
	}
	if reading.HasCJC {
		rec.CJC = ptr(reading.CJC)
	}

	return rec
}

func ptr(v float64) *float64 {
	return &v
}

// boardRecord is one entry of the list command's JSON output.
type boardRecord struct {
	Address uint8  `json:"ADDRESS"`
	Product string `json:"PRODUCT"`
}

// WriteBoards renders the detected board list.
func (w *Writer) WriteBoards(boards []hat.BoardID) error {
	if w.json {
		records := make([]boardRecord, 0, len(boards))
		for _, b := range boards {
			records = append(records, boardRecord{Address: b.Address, Product: b.Product})
		}

		return json.NewEncoder(w.out).Encode(records)
	}

	return w.writeBoardTable(boards)
}
