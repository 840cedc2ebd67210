package bridge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codeberg.org/witt/thermoctl/internal/bridge"
)

var stampTime = time.Date(2024, time.November, 2, 15, 4, 5, 123456789, time.UTC)

func TestFormatTimestampMicroseconds(t *testing.T) {
	assert.Equal(t, "123456", bridge.FormatTimestamp(stampTime, "%f"))

	padded := time.Date(2024, time.November, 2, 15, 4, 5, 42000, time.UTC)
	assert.Equal(t, "000042", bridge.FormatTimestamp(padded, "%f"))
}

func TestFormatTimestampDefaultFormat(t *testing.T) {
	got := bridge.FormatTimestamp(stampTime, "%Y-%m-%dT%H:%M:%S.%f")
	assert.Equal(t, "2024-11-02T15:04:05.123456", got)
}

func TestFormatTimestampDirectives(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{"%y", "24"},
		{"%e", " 2"},
		{"%I %p", "03 PM"},
		{"%a %A", "Sat Saturday"},
		{"%b %B", "Nov November"},
		{"%j", "307"},
		{"%Z", "UTC"},
		{"%z", "+0000"},
		{"100%%", "100%"},
		{"plain text", "plain text"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, bridge.FormatTimestamp(stampTime, tc.format), "format %q", tc.format)
	}
}

func TestFormatTimestampUnknownDirectivePassesThrough(t *testing.T) {
	assert.Equal(t, "%Q-2024", bridge.FormatTimestamp(stampTime, "%Q-%Y"))
	assert.Equal(t, "trailing %", bridge.FormatTimestamp(stampTime, "trailing %"))
}
