package telemetry

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/logger"
)

// row is one stored reading. Values are copied out of the collector's
// reusable buffer at record time.
type row struct {
	at      time.Time
	key     string
	address uint8
	channel uint8

	temperature sql.NullFloat64
	voltage     sql.NullFloat64
	cjc         sql.NullFloat64
}

// Repository persists reading rows to sqlite, batching inserts into
// transactions flushed on size or on a timer.
type Repository struct {
	db            *sql.DB
	cfg           Config
	mu            sync.Mutex
	buffer        []row
	flushTicker   *time.Ticker
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
}

func NewRepository(cfg Config) (*Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{Phase: "create_directory", Path: cfg.DBPath, Error: err.Error()})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{Phase: "open_database", Error: err.Error()})
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Msg("Telemetry repository initialized")

	repo := &Repository{
		db:            db,
		cfg:           cfg,
		buffer:        make([]row, 0, cfg.BatchSize),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}

	if cfg.BatchTimeout > 0 {
		repo.flushTicker = time.NewTicker(time.Duration(cfg.BatchTimeout) * time.Second)
		go repo.flusher()
	} else {
		close(repo.flushDoneChan)
	}

	return repo, nil
}

func (r *Repository) record(rows []row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, rows...)

	if len(r.buffer) >= r.cfg.BatchSize {
		return r.flush()
	}

	return nil
}

func (r *Repository) Close() error {
	close(r.shutdownChan)
	if r.flushTicker != nil {
		r.flushTicker.Stop()
	}
	<-r.flushDoneChan

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flush(); err != nil {
		return err
	}

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{Phase: "checkpoint_wal", Error: err.Error()})
	}

	if err := r.db.Close(); err != nil {
		return errors.New().WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{Phase: "close_database", Error: err.Error()})
	}

	logger.Debug().Msg("Telemetry repository closed")

	return nil
}

func (r *Repository) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushTicker.C:
			r.mu.Lock()
			if err := r.flush(); err != nil {
				logger.Warn().Err(err).Msg("Periodic telemetry flush failed")
			}
			r.mu.Unlock()
		case <-r.shutdownChan:
			return
		}
	}
}

// flush writes the buffered rows in one transaction. Caller holds mu.
func (r *Repository) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	errFactory := errors.New()

	tx, err := r.db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrTransactionFail, err)
	}

	stmt, err := tx.Prepare(insertReadingSQL)
	if err != nil {
		tx.Rollback()
		return errFactory.Wrap(ErrTransactionFail, err)
	}
	defer stmt.Close()

	for i := range r.buffer {
		entry := &r.buffer[i]
		_, err := stmt.Exec(
			entry.at.Unix(),
			entry.key,
			int64(entry.address),
			int64(entry.channel),
			entry.temperature,
			entry.voltage,
			entry.cjc,
		)
		if err != nil {
			tx.Rollback()
			return errFactory.Wrap(ErrTransactionFail, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFail, err)
	}

	logger.Debug().Int("records", len(r.buffer)).Msg("Flushed readings to database")
	r.buffer = r.buffer[:0]

	return nil
}
