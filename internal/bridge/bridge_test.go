package bridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/witt/thermoctl/internal/bridge"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat/hattest"
)

func fusedSource() []config.Source {
	return []config.Source{config.NewSource("T1", 0, 0, "K")}
}

func TestRunPassthroughNonJSONLines(t *testing.T) {
	fake := hattest.New()
	var buf bytes.Buffer

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"sh", "-c", `printf 'not json\n\n[1,2]\n'`},
		Out:     &buf,
	})

	code, err := session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, bridge.StateTerminated, session.State())

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4) // three lines plus trailing newline
	assert.Equal(t, "not json", lines[0])
	assert.Equal(t, "", lines[1], "Blank lines stay blank")
	assert.Equal(t, "[1,2]", lines[2], "Non-object JSON passes through untouched")

	assert.Equal(t, []uint8{0}, fake.OpenCalls)
	assert.Equal(t, []uint8{0}, fake.CloseCalls, "Boards closed once after producer exit")
}

func TestRunInjectsReadingsAndTimestamp(t *testing.T) {
	fake := hattest.New()
	fake.SetTemperature(0, 0, 21.5)
	fake.CJCs[hattest.Key{Address: 0, Channel: 0}] = 24.0
	// No voltage scripted: ADC must be omitted, not null.

	var buf bytes.Buffer
	session := bridge.NewSession(fake, bridge.Options{
		Sources:    fusedSource(),
		TimeFormat: "%Y",
		Argv:       []string{"sh", "-c", `echo '{"X":1,"NESTED":{"A":0.10}}'`},
		Out:        &buf,
	})

	code, err := session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	line := strings.TrimSpace(buf.String())

	var got struct {
		X            int             `json:"X"`
		Nested       json.RawMessage `json:"NESTED"`
		Timestamp    string          `json:"TIMESTAMP"`
		Thermocouple map[string]map[string]float64
	}
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, 1, got.X)
	assert.Equal(t, time.Now().Format("2006"), got.Timestamp)

	require.Contains(t, got.Thermocouple, "T1")
	probe := got.Thermocouple["T1"]
	assert.InDelta(t, 21.5, probe["TEMP"], 1e-9)
	assert.InDelta(t, 24.0, probe["CJC"], 1e-9)
	_, hasADC := probe["ADC"]
	assert.False(t, hasADC, "Failed reads are omitted")
	_, hasLongName := probe["TEMPERATURE"]
	assert.False(t, hasLongName, "Injected temperature uses the short TEMP name")

	// Original values keep their exact bytes.
	assert.Contains(t, line, `"X":1`)
	assert.Contains(t, line, `"A":0.10`)
}

func TestRunReturnsProducerExitCode(t *testing.T) {
	fake := hattest.New()
	var buf bytes.Buffer

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"sh", "-c", "exit 3"},
		Out:     &buf,
	})

	code, err := session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, []uint8{0}, fake.CloseCalls)
}

func TestRunSpawnFailureClosesBoards(t *testing.T) {
	fake := hattest.New()

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"/nonexistent/producer-binary"},
		Out:     &bytes.Buffer{},
	})

	code, err := session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, errors.ErrSpawnProducer, errors.CodeOf(err))
	assert.Equal(t, []uint8{0}, fake.CloseCalls, "Boards closed even when spawn fails")
	assert.Equal(t, bridge.StateTerminated, session.State())
}

func TestRunInitFailure(t *testing.T) {
	fake := hattest.New()
	fake.FailOpen[0] = true

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"true"},
		Out:     &bytes.Buffer{},
	})

	code, err := session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, errors.ErrOpenBoard, errors.CodeOf(err))
	assert.Equal(t, bridge.StateTerminated, session.State())
}

func TestRunCancellationDrainsAndCloses(t *testing.T) {
	fake := hattest.New()
	fake.SetTemperature(0, 0, 21.5)
	var buf bytes.Buffer

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"sh", "-c", `while true; do echo '{"X":1}'; sleep 0.01; done`},
		Out:     &buf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		code, err := session.Run(ctx)
		assert.NoError(t, err)
		done <- code
	}()

	time.Sleep(80 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 1, code, "Producer killed by the shutdown signal maps to 1")
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate after cancellation")
	}

	assert.Equal(t, []uint8{0}, fake.CloseCalls, "Exactly one close after cancellation")
	assert.Equal(t, bridge.StateTerminated, session.State())
	assert.Contains(t, buf.String(), `"THERMOCOUPLE"`)
}

func TestRunCancellationKeepsProducerExitCode(t *testing.T) {
	fake := hattest.New()
	var buf bytes.Buffer

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv: []string{"sh", "-c",
			`trap 'exit 7' TERM; while :; do echo '{"X":1}'; sleep 0.01; done`},
		Out: &buf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		code, err := session.Run(ctx)
		assert.NoError(t, err)
		done <- code
	}()

	time.Sleep(80 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 7, code, "Producer's own exit status survives cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate after cancellation")
	}
	assert.Equal(t, []uint8{0}, fake.CloseCalls)
}

func TestRunPassthroughKeepsCarriageReturn(t *testing.T) {
	fake := hattest.New()
	var buf bytes.Buffer

	session := bridge.NewSession(fake, bridge.Options{
		Sources: fusedSource(),
		Argv:    []string{"sh", "-c", `printf 'not json\r\n'`},
		Out:     &buf,
	})

	code, err := session.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "not json\r\n", buf.String(), "CRLF lines pass through byte-for-byte")
}

func TestProducerArgv(t *testing.T) {
	argv := bridge.ProducerArgv([]string{"--camera", "0"})
	assert.Equal(t, []string{"stdbuf", "-oL", "-eL", "cmg-cli", "get", "--camera", "0", "--json"}, argv)

	argv = bridge.ProducerArgv([]string{"--json", "--camera", "0"})
	assert.Equal(t, []string{"stdbuf", "-oL", "-eL", "cmg-cli", "get", "--json", "--camera", "0"}, argv)

	argv = bridge.ProducerArgv([]string{"-j"})
	assert.Equal(t, []string{"stdbuf", "-oL", "-eL", "cmg-cli", "get", "-j"}, argv,
		"Short JSON flag is recognized, no duplicate appended")
}
