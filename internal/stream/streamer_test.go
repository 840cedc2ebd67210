package stream_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat/hattest"
	"codeberg.org/witt/thermoctl/internal/output"
	"codeberg.org/witt/thermoctl/internal/stream"
)

// syncBuffer serializes writes between the stream goroutine and test
// assertions.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func newFake() *hattest.Fake {
	fake := hattest.New()
	fake.SetTemperature(0, 0, 21.5)

	return fake
}

func TestOnceCollectsAndCloses(t *testing.T) {
	fake := newFake()
	var buf syncBuffer

	s := stream.New(fake, stream.Options{
		Sources:    []config.Source{config.NewSource("T1", 0, 0, "K")},
		Quantities: collect.Quantities{Temperature: true},
		Writer:     output.NewWriter(&buf, true, false),
	})
	require.NoError(t, s.Once(context.Background()))

	assert.Equal(t, []uint8{0}, fake.OpenCalls)
	assert.Equal(t, []uint8{0}, fake.CloseCalls)
	assert.Contains(t, buf.String(), `"TEMPERATURE":21.5`)
}

func TestRunRejectsInvalidRate(t *testing.T) {
	fake := newFake()
	s := stream.New(fake, stream.Options{
		Sources: []config.Source{config.NewSource("T1", 0, 0, "K")},
		RateHz:  0,
		Writer:  output.NewWriter(&syncBuffer{}, true, false),
	})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidRate, errors.CodeOf(err))
	assert.Empty(t, fake.OpenCalls, "No boards touched on invalid rate")
}

func TestRunPropagatesInitFailure(t *testing.T) {
	fake := newFake()
	fake.FailOpen[0] = true

	var buf syncBuffer
	s := stream.New(fake, stream.Options{
		Sources:    []config.Source{config.NewSource("T1", 0, 0, "K")},
		RateHz:     10,
		Quantities: collect.Quantities{Temperature: true},
		Writer:     output.NewWriter(&buf, true, false),
	})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrOpenBoard, errors.CodeOf(err))
	assert.Empty(t, buf.String(), "No output emitted when initialization fails")
}

func TestRunStopsOnCancelAndClosesOnce(t *testing.T) {
	fake := newFake()
	var buf syncBuffer

	s := stream.New(fake, stream.Options{
		Sources:    []config.Source{config.NewSource("T1", 0, 0, "K")},
		RateHz:     100,
		Quantities: collect.Quantities{Temperature: true},
		Writer:     output.NewWriter(&buf, true, false),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}

	assert.Equal(t, []uint8{0}, fake.OpenCalls, "One open for the session")
	assert.Equal(t, []uint8{0}, fake.CloseCalls, "Exactly one close on exit")
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 1)
}

func TestRunEmitsStaticInfoOnceWithFirstCycle(t *testing.T) {
	fake := newFake()
	fake.Serials[0] = "01F2A3B4"
	var buf syncBuffer

	s := stream.New(fake, stream.Options{
		Sources:    []config.Source{config.NewSource("T1", 0, 0, "K")},
		RateHz:     200,
		Quantities: collect.Quantities{Temperature: true},
		Info:       collect.InfoFields{Serial: true},
		Writer:     output.NewWriter(&buf, true, false),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	out := buf.String()
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 2, "Multiple cycles emitted")
	assert.Equal(t, 1, strings.Count(out, "01F2A3B4"), "Serial appears in the first cycle only")
}
