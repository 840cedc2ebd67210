package board_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/witt/thermoctl/internal/board"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat/hattest"
)

func source(address, channel uint8) config.Source {
	return config.NewSource("", address, channel, "K")
}

func TestInitializeOpensDistinctAddressesOnce(t *testing.T) {
	fake := hattest.New()
	sources := []config.Source{source(0, 0), source(0, 1), source(2, 3), source(0, 2)}
	manager := board.NewManager(fake, sources)

	require.NoError(t, manager.Initialize(context.Background()))

	assert.Equal(t, []uint8{0, 2}, fake.OpenCalls, "Each address opened once, in source order")
	assert.Equal(t, 2, manager.OpenCount())
	assert.True(t, manager.IsOpen(0))
	assert.True(t, manager.IsOpen(2))
	assert.False(t, manager.IsOpen(5))
	assert.Empty(t, fake.IntervalWrites, "Default interval is never written")
}

func TestInitializeRollsBackOnFailure(t *testing.T) {
	fake := hattest.New()
	fake.FailOpen[4] = true
	sources := []config.Source{source(1, 0), source(3, 0), source(4, 0)}
	manager := board.NewManager(fake, sources)

	err := manager.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrOpenBoard, errors.CodeOf(err))

	assert.Equal(t, []uint8{1, 3, 4}, fake.OpenCalls)
	assert.Equal(t, []uint8{1, 3}, fake.CloseCalls, "Previously opened boards closed on failure")
	assert.Equal(t, 0, manager.OpenCount())
}

func TestInitializeCancelledContext(t *testing.T) {
	fake := hattest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := board.NewManager(fake, []config.Source{source(0, 0)})
	err := manager.Initialize(ctx)
	require.Error(t, err)
	assert.Equal(t, errors.ErrOpenBoard, errors.CodeOf(err))
	assert.Empty(t, fake.OpenCalls)
}

func TestInitializeIntervalLastWriterWins(t *testing.T) {
	fake := hattest.New()

	first := source(0, 0)
	first.UpdateInterval = 3
	second := source(0, 1)
	second.UpdateInterval = 7
	third := source(0, 2) // default, no write

	manager := board.NewManager(fake, []config.Source{first, second, third})
	require.NoError(t, manager.Initialize(context.Background()))

	require.Len(t, fake.IntervalWrites, 2)
	assert.Equal(t, hattest.IntervalWrite{Address: 0, Seconds: 3}, fake.IntervalWrites[0])
	assert.Equal(t, hattest.IntervalWrite{Address: 0, Seconds: 7}, fake.IntervalWrites[1])

	got, err := fake.UpdateInterval(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), got, "Last writer wins on a shared board")
}

func TestConfigureSkipsDefaultCalibration(t *testing.T) {
	fake := hattest.New()

	calibrated := source(0, 0)
	calibrated.CalSlope = 1.002
	calibrated.CalOffset = -1.0
	factory := source(0, 1)

	manager := board.NewManager(fake, []config.Source{calibrated, factory})
	require.NoError(t, manager.Initialize(context.Background()))
	manager.Configure()

	require.Len(t, fake.CalWrites, 1, "Factory-default calibration is never written")
	assert.Equal(t, uint8(0), fake.CalWrites[0].Channel)
	assert.InDelta(t, 1.002, fake.CalWrites[0].Cal.Slope, 1e-9)

	require.Len(t, fake.TCTypeWrites, 2, "Thermocouple type is always written")

	// Configure is idempotent: a second pass repeats the same writes.
	manager.Configure()
	assert.Len(t, fake.CalWrites, 2)
	assert.Len(t, fake.TCTypeWrites, 4)
}

func TestCloseIsIdempotent(t *testing.T) {
	fake := hattest.New()
	manager := board.NewManager(fake, []config.Source{source(0, 0), source(1, 0)})

	require.NoError(t, manager.Initialize(context.Background()))
	manager.Close()
	manager.Close()

	assert.Equal(t, []uint8{0, 1}, fake.CloseCalls, "Second close is a no-op")
	assert.Equal(t, 0, manager.OpenCount())
}
