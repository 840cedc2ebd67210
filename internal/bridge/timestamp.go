package bridge

import (
	"fmt"
	"strings"
	"time"
)

// strftime directives that map directly onto a Go layout fragment.
var strftimeLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'Z': "MST",
	'z': "-0700",
}

// FormatTimestamp renders t using an strftime-style format, extended
// with %f for zero-padded microseconds. Two passes: %f is substituted
// textually first, then the remaining directives are expanded. Unknown
// directives pass through unchanged.
func FormatTimestamp(t time.Time, format string) string {
	format = strings.ReplaceAll(format, "%f", fmt.Sprintf("%06d", t.Nanosecond()/1000))

	var b strings.Builder
	b.Grow(len(format) + 16)

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		directive := format[i]
		switch {
		case directive == '%':
			b.WriteByte('%')
		case directive == 'j':
			fmt.Fprintf(&b, "%03d", t.YearDay())
		default:
			if layout, ok := strftimeLayouts[directive]; ok {
				b.WriteString(t.Format(layout))
			} else {
				b.WriteByte('%')
				b.WriteByte(directive)
			}
		}
	}

	return b.String()
}
