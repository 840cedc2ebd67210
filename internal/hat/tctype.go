package hat

import "codeberg.org/witt/thermoctl/internal/errors"

// TCType selects how a channel's raw signal is converted to temperature.
// Values match the MCC 134 register encoding.
type TCType uint8

const (
	TCTypeJ TCType = iota
	TCTypeK
	TCTypeT
	TCTypeE
	TCTypeR
	TCTypeS
	TCTypeB
	TCTypeN
	TCDisabled
)

var tcTypeNames = map[TCType]string{
	TCTypeJ:    "J",
	TCTypeK:    "K",
	TCTypeT:    "T",
	TCTypeE:    "E",
	TCTypeR:    "R",
	TCTypeS:    "S",
	TCTypeB:    "B",
	TCTypeN:    "N",
	TCDisabled: "DISABLED",
}

func (t TCType) String() string {
	if name, ok := tcTypeNames[t]; ok {
		return name
	}

	return "UNKNOWN"
}

// TCTypeFromString parses a thermocouple type selector.
func TCTypeFromString(s string) (TCType, error) {
	for t, name := range tcTypeNames {
		if name == s {
			return t, nil
		}
	}

	errFactory := errors.New()

	return TCDisabled, errFactory.WithData(errors.ErrInvalidArgument, struct {
		TCType string
	}{TCType: s})
}
