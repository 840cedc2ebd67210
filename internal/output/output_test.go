package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/output"
)

func TestJSONSingleSourceFlatObject(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, true, false)

	readings := []collect.Reading{{
		Key:            "T1",
		Address:        0,
		Channel:        2,
		Temperature:    21.5,
		HasTemperature: true,
	}}
	require.NoError(t, w.WriteReadings(readings, nil))

	line := strings.TrimSpace(buf.String())
	assert.False(t, strings.HasPrefix(line, "["), "Single source is a flat object")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "T1", got["KEY"])
	assert.Equal(t, float64(2), got["CHANNEL"])
	assert.InDelta(t, 21.5, got["TEMPERATURE"].(float64), 1e-9)

	// Unsampled quantities are omitted, never null.
	_, hasADC := got["ADC"]
	assert.False(t, hasADC)
	_, hasCJC := got["CJC"]
	assert.False(t, hasCJC)
}

func TestJSONMultipleSourcesArray(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, true, false)

	readings := []collect.Reading{
		{Key: "T1", Address: 0, Channel: 0, Temperature: 1, HasTemperature: true},
		{Key: "T2", Address: 0, Channel: 1, Temperature: 2, HasTemperature: true},
	}
	require.NoError(t, w.WriteReadings(readings, nil))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[1]["KEY"])

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "One JSON value per line")
}

func TestJSONMergesBoardInfo(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, true, false)

	readings := []collect.Reading{{Key: "T1", Address: 1, Channel: 0}}
	boards := map[uint8]*collect.BoardInfo{
		1: {
			Address:            1,
			Serial:             "01F2A3B4",
			HasSerial:          true,
			CalibrationDate:    "2024-11-02",
			HasCalibrationDate: true,
			UpdateInterval:     4,
			HasUpdateInterval:  true,
			Calibrations: map[uint8]hat.Calibration{
				0: {Slope: 1.001, Offset: -0.5},
			},
		},
	}
	require.NoError(t, w.WriteReadings(readings, boards))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "01F2A3B4", got["SERIAL"])
	assert.Equal(t, float64(4), got["UPDATE_INTERVAL"])

	cal, ok := got["CALIBRATION"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-11-02", cal["DATE"])
	assert.InDelta(t, 1.001, cal["SLOPE"].(float64), 1e-9)
	assert.InDelta(t, -0.5, cal["OFFSET"].(float64), 1e-9)
}

func TestTableSentinelNames(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	w := output.NewWriter(&buf, false, false)

	readings := []collect.Reading{
		{Key: "T1", Address: 0, Channel: 0, Temperature: hat.OpenSensorValue, HasTemperature: true},
		{Key: "T2", Address: 0, Channel: 1, Temperature: hat.CommonModeValue, HasTemperature: true},
	}
	require.NoError(t, w.WriteReadings(readings, nil))

	out := buf.String()
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "COMMON_MODE_ERROR")
	assert.NotContains(t, out, "-9999")
}

func TestCleanModeRows(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	w := output.NewWriter(&buf, false, true)

	readings := []collect.Reading{{
		Key:            "T1",
		Temperature:    21.5,
		Voltage:        0.000845,
		CJC:            24.0,
		HasTemperature: true,
		HasVoltage:     true,
		HasCJC:         true,
	}}
	require.NoError(t, w.WriteReadings(readings, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "T1 21.500000", lines[0])
	assert.Equal(t, "T1_ADC 0.000845", lines[1])
	assert.Equal(t, "T1_CJC 24.000000", lines[2])
}

func TestWriteBoards(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, true, false)

	boards := []hat.BoardID{{Address: 0, Product: "MCC 134"}}
	require.NoError(t, w.WriteBoards(boards))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "MCC 134", got[0]["PRODUCT"])
}
