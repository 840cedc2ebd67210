package telemetry

import "codeberg.org/witt/thermoctl/internal/errors"

const (
	ErrInvalidConfig = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	ErrStorageInit      = errors.ErrorCode("telemetry_storage_init_failed")
	ErrStorageClose     = errors.ErrorCode("telemetry_storage_close_failed")
	ErrTransactionFail  = errors.ErrorCode("telemetry_transaction_failed")
	ErrSchemaMismatch   = errors.ErrorCode("telemetry_schema_mismatch")
	ErrServiceShutdown  = errors.ErrorCode("telemetry_service_shutdown_failed")
	ErrOperationAborted = errors.ErrorCode("telemetry_operation_aborted")
)
