// Package board manages the lifecycle of the boards referenced by a set
// of sources: open, configure, close.
package board

import (
	"context"

	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
)

// Manager tracks which board addresses a session has opened so that
// every address is opened and closed exactly once.
type Manager struct {
	driver  hat.Driver
	sources []config.Source
	open    []uint8
}

func NewManager(driver hat.Driver, sources []config.Source) *Manager {
	return &Manager{
		driver:  driver,
		sources: sources,
		open:    make([]uint8, 0, hat.MaxBoards),
	}
}

// Initialize opens each distinct address exactly once, in source order.
// On any failure (or cancellation between opens) every address opened by
// this call is closed again and the error names the failing address.
// After all opens succeed, non-default update intervals are written in
// source order; when two sources share a board the last writer wins.
func (m *Manager) Initialize(ctx context.Context) error {
	errFactory := errors.New()

	for i := range m.sources {
		address := m.sources[i].Address
		if m.IsOpen(address) {
			continue
		}
		if err := ctx.Err(); err != nil {
			m.rollback()
			return errFactory.Wrap(errors.ErrOpenBoard, err)
		}
		if err := m.driver.Open(address); err != nil {
			m.rollback()
			return errFactory.WithData(errors.ErrOpenBoard, struct {
				Address uint8
				Cause   string
			}{Address: address, Cause: err.Error()})
		}
		m.open = append(m.open, address)
		logger.Debug().Uint8("address", address).Msg("Board opened")
	}

	for i := range m.sources {
		source := &m.sources[i]
		if source.UpdateInterval == config.DefaultUpdateInterval {
			continue
		}
		if err := m.driver.SetUpdateInterval(source.Address, uint8(source.UpdateInterval)); err != nil {
			logger.Warn().
				Uint8("address", source.Address).
				Int("interval", source.UpdateInterval).
				Err(err).
				Msg("Failed to set update interval")
		}
	}

	return nil
}

// Configure applies per-channel settings for every source: calibration
// coefficients only when they differ from the factory defaults, and the
// thermocouple type always. Write failures are logged and skipped, the
// session continues with whatever the board holds. Safe to call again.
func (m *Manager) Configure() {
	errFactory := errors.New()

	for i := range m.sources {
		source := &m.sources[i]
		if !source.HasDefaultCalibration() {
			if err := m.driver.WriteCalibration(source.Address, source.Channel, source.Calibration()); err != nil {
				logger.ErrorWithCode(errFactory.Wrap(errors.ErrConfigureBoard, err)).
					Uint8("address", source.Address).
					Uint8("channel", source.Channel).
					Msg("Failed to write calibration")
			}
		}
		if err := m.driver.SetTCType(source.Address, source.Channel, source.TC()); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(errors.ErrConfigureBoard, err)).
				Uint8("address", source.Address).
				Uint8("channel", source.Channel).
				Msg("Failed to set thermocouple type")
		}
	}
}

// Close closes every open address exactly once and empties the open set.
// Calling it on an empty set is a no-op.
func (m *Manager) Close() {
	errFactory := errors.New()

	for _, address := range m.open {
		if err := m.driver.Close(address); err != nil {
			logger.Warn().
				Uint8("address", address).
				Err(errFactory.Wrap(errors.ErrCloseBoard, err)).
				Msg("Failed to close board")
			continue
		}
		logger.Debug().Uint8("address", address).Msg("Board closed")
	}
	m.open = m.open[:0]
}

// OpenCount returns the number of addresses currently held open.
func (m *Manager) OpenCount() int {
	return len(m.open)
}

// IsOpen reports whether this manager opened the given address.
func (m *Manager) IsOpen(address uint8) bool {
	for _, a := range m.open {
		if a == address {
			return true
		}
	}

	return false
}

func (m *Manager) rollback() {
	for _, address := range m.open {
		if err := m.driver.Close(address); err != nil {
			logger.Warn().Uint8("address", address).Err(err).Msg("Rollback close failed")
		}
	}
	m.open = m.open[:0]
}
