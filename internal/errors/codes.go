package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrMissingConfig ErrorCode = "missing_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrInvalidSource ErrorCode = "invalid_source"
	ErrWriteConfig   ErrorCode = "write_config_failed"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Board lifecycle errors (fatal to a session)
	ErrOpenBoard  ErrorCode = "board_open_failed"
	ErrCloseBoard ErrorCode = "board_close_failed"
	ErrListBoards ErrorCode = "board_list_failed"

	// Board configuration errors (non-fatal, session continues with defaults)
	ErrConfigureBoard ErrorCode = "board_configure_failed"

	// Acquisition errors (reflected as missing data, never propagated)
	ErrReadChannel ErrorCode = "channel_read_failed"

	// Streaming errors
	ErrInvalidRate ErrorCode = "invalid_stream_rate"

	// Fusion bridge errors (fatal before any line is processed)
	ErrSpawnProducer ErrorCode = "producer_spawn_failed"
	ErrAwaitProducer ErrorCode = "producer_wait_failed"

	// Telemetry errors
	ErrInitTelemetry   ErrorCode = "init_telemetry_failed"
	ErrRecordTelemetry ErrorCode = "record_telemetry_failed"
	ErrCloseTelemetry  ErrorCode = "close_telemetry_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrInvalidConfig:   "Invalid configuration",
	ErrMissingConfig:   "Missing configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidSource:   "Invalid source definition",
	ErrWriteConfig:     "Failed to write configuration",
	ErrInvalidLogLevel: "Invalid log level",
	ErrOpenBoard:       "Failed to open board",
	ErrCloseBoard:      "Failed to close board",
	ErrListBoards:      "Failed to list boards",
	ErrConfigureBoard:  "Failed to configure board",
	ErrReadChannel:     "Failed to read channel",
	ErrInvalidRate:     "Invalid stream rate",
	ErrSpawnProducer:   "Failed to spawn producer process",
	ErrAwaitProducer:   "Failed to await producer process",
	ErrInitTelemetry:   "Failed to initialize telemetry",
	ErrRecordTelemetry: "Failed to record telemetry",
	ErrCloseTelemetry:  "Failed to close telemetry",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
