// Package stream drives the acquisition loop: collect, emit, sleep,
// until cancelled.
package stream

import (
	"context"
	"time"

	"codeberg.org/witt/thermoctl/internal/board"
	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
	"codeberg.org/witt/thermoctl/internal/output"
	"codeberg.org/witt/thermoctl/internal/telemetry"
)

// Options configures one acquisition session.
type Options struct {
	Sources    []config.Source
	RateHz     float64
	Quantities collect.Quantities
	Info       collect.InfoFields
	Writer     *output.Writer
	Recorder   telemetry.Recorder
}

// Streamer owns the board lifecycle for the duration of a session.
// Boards are opened on entry and closed exactly once on any exit path.
type Streamer struct {
	driver hat.Driver
	opts   Options
}

func New(driver hat.Driver, opts Options) *Streamer {
	if opts.Recorder == nil {
		opts.Recorder = telemetry.NewNoop()
	}

	return &Streamer{driver: driver, opts: opts}
}

// Once performs a single acquisition cycle: initialize, configure,
// collect, emit, close.
func (s *Streamer) Once(ctx context.Context) error {
	manager := board.NewManager(s.driver, s.opts.Sources)
	if err := manager.Initialize(ctx); err != nil {
		return err
	}
	defer manager.Close()
	manager.Configure()

	collector := collect.New(s.driver, s.opts.Sources)

	return s.cycle(ctx, collector, true)
}

// Run streams cycles at the configured rate until ctx is cancelled.
// Static board info, when requested, is emitted with the first cycle
// only. Cancellation is honored at cycle boundaries; an in-flight cycle
// always completes.
func (s *Streamer) Run(ctx context.Context) error {
	errFactory := errors.New()

	if s.opts.RateHz <= 0 {
		return errFactory.WithData(errors.ErrInvalidRate, struct {
			RateHz float64
		}{RateHz: s.opts.RateHz})
	}
	period := time.Duration(float64(time.Second) / s.opts.RateHz)

	manager := board.NewManager(s.driver, s.opts.Sources)
	if err := manager.Initialize(ctx); err != nil {
		return err
	}
	defer manager.Close()
	manager.Configure()

	collector := collect.New(s.driver, s.opts.Sources)

	logger.Info().
		Float64("rate_hz", s.opts.RateHz).
		Int("sources", len(s.opts.Sources)).
		Msg("Streaming started")

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	first := true
	for {
		if err := s.cycle(ctx, collector, first); err != nil {
			return err
		}
		first = false

		select {
		case <-ctx.Done():
			logger.Debug().Msg("Streaming stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Streamer) cycle(ctx context.Context, collector *collect.Collector, withInfo bool) error {
	at := time.Now()
	readings := collector.Collect(s.opts.Quantities)

	var boards map[uint8]*collect.BoardInfo
	if withInfo && s.opts.Info.Any() {
		boards = collector.CollectInfo(s.opts.Info)
	}

	if err := s.opts.Writer.WriteReadings(readings, boards); err != nil {
		return err
	}

	if err := s.opts.Recorder.Record(ctx, at, readings); err != nil {
		logger.Warn().Err(err).Msg("Failed to record readings")
	}

	return nil
}
