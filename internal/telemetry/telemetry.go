// Package telemetry optionally persists streamed readings to sqlite.
package telemetry

import (
	"context"
	"database/sql"
	"time"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/errors"
)

// Recorder receives one call per acquisition cycle.
type Recorder interface {
	Record(ctx context.Context, at time.Time, readings []collect.Reading) error
	Close() error
}

type noop struct{}

// NewNoop returns a Recorder that discards everything. Used when
// telemetry is disabled.
func NewNoop() Recorder {
	return noop{}
}

func (noop) Record(context.Context, time.Time, []collect.Reading) error { return nil }
func (noop) Close() error                                               { return nil }

type service struct {
	repo *Repository
}

// NewService opens the sqlite-backed recorder.
func NewService(cfg Config) (Recorder, error) {
	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, at time.Time, readings []collect.Reading) error {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationAborted, ctx.Err())
	default:
	}

	rows := make([]row, 0, len(readings))
	for i := range readings {
		reading := &readings[i]
		rows = append(rows, row{
			at:          at,
			key:         reading.Key,
			address:     reading.Address,
			channel:     reading.Channel,
			temperature: nullFloat(reading.Temperature, reading.HasTemperature),
			voltage:     nullFloat(reading.Voltage, reading.HasVoltage),
			cjc:         nullFloat(reading.CJC, reading.HasCJC),
		})
	}

	return s.repo.record(rows)
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}

	return nil
}

func nullFloat(value float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: value, Valid: valid}
}
