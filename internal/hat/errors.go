package hat

// resultError wraps a daqhats result code.
type resultError struct {
	code int
	op   string
}

func (e *resultError) Error() string {
	return e.op + ": " + resultString(e.code)
}

func resultString(code int) string {
	switch code {
	case resultSuccess:
		return "success"
	case resultBadParameter:
		return "bad parameter"
	case resultBusy:
		return "device busy"
	case resultTimeout:
		return "timeout"
	case resultLockTimeout:
		return "lock timeout"
	case resultInvalidDevice:
		return "invalid device"
	case resultResourceUnavail:
		return "resource unavailable"
	case resultCommsFailure:
		return "communications failure"
	default:
		return "undefined error"
	}
}

// daqhats result codes (daqhats.h).
const (
	resultSuccess         = 0
	resultBadParameter    = -1
	resultBusy            = -2
	resultTimeout         = -3
	resultLockTimeout     = -4
	resultInvalidDevice   = -5
	resultResourceUnavail = -6
	resultCommsFailure    = -7
)

// newResultError converts a daqhats return code to an error, nil on success.
func newResultError(op string, code int) error {
	if code == resultSuccess {
		return nil
	}

	return &resultError{code: code, op: op}
}
