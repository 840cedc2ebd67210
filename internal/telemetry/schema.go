package telemetry

import (
	"database/sql"

	"codeberg.org/witt/thermoctl/internal/errors"
)

// SchemaVersion is bumped whenever the readings table shape changes.
const SchemaVersion = 1

const insertReadingSQL = `
    INSERT INTO readings (
        timestamp, source_key, address, channel,
        temperature, voltage, cjc
    ) VALUES (?, ?, ?, ?, ?, ?, ?)
`

func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS schema_version (
            version INTEGER PRIMARY KEY
        );
        CREATE TABLE IF NOT EXISTS readings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp INTEGER NOT NULL,
            source_key TEXT NOT NULL,
            address INTEGER NOT NULL,
            channel INTEGER NOT NULL,
            temperature REAL,
            voltage REAL,
            cjc REAL
        );
        CREATE INDEX IF NOT EXISTS idx_readings_timestamp
            ON readings (timestamp);
    `)
	if err != nil {
		return errFactory.Wrap(ErrStorageInit, err)
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return errFactory.Wrap(ErrStorageInit, err)
		}
	case err != nil:
		return errFactory.Wrap(ErrStorageInit, err)
	case version != SchemaVersion:
		return errFactory.WithData(ErrSchemaMismatch, struct {
			Found    int
			Expected int
		}{Found: version, Expected: SchemaVersion})
	}

	return nil
}
