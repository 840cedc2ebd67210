// Package bridge spawns a line-oriented producer process and injects
// sensor readings into its JSON output.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"codeberg.org/witt/thermoctl/internal/board"
	"codeberg.org/witt/thermoctl/internal/collect"
	"codeberg.org/witt/thermoctl/internal/config"
	"codeberg.org/witt/thermoctl/internal/errors"
	"codeberg.org/witt/thermoctl/internal/hat"
	"codeberg.org/witt/thermoctl/internal/logger"
)

// State tracks a session through its lifecycle.
type State int

const (
	StateCreated State = iota
	StateBoardsInitialized
	StateRunning
	StateDraining
	StateTerminated
)

const maxLineSize = 1 << 20

// Options configures a fusion session.
type Options struct {
	Sources    []config.Source
	TimeFormat string

	// Argv is the full producer command line, first element the binary.
	Argv []string

	Out io.Writer
}

// Session fuses sensor readings into a producer's output stream. For
// each JSON line the producer emits, readings are sampled after the
// line is received and before it is forwarded, so injected values are
// never newer than the next line.
type Session struct {
	driver  hat.Driver
	opts    Options
	state   State
	manager *board.Manager
}

func NewSession(driver hat.Driver, opts Options) *Session {
	if opts.TimeFormat == "" {
		opts.TimeFormat = config.DefaultTimeFormat
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &Session{driver: driver, opts: opts, state: StateCreated}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Run executes the session and returns the process exit code to use:
// the producer's own exit code once it terminates (death by signal
// maps to 1), or 1 when boards cannot be initialized or the producer
// cannot be spawned. Boards are closed after the producer has been
// awaited, on every path.
func (s *Session) Run(ctx context.Context) (int, error) {
	errFactory := errors.New()

	if len(s.opts.Argv) == 0 {
		s.state = StateTerminated
		return 1, errFactory.WithMessage(errors.ErrSpawnProducer, "empty producer command line")
	}

	s.manager = board.NewManager(s.driver, s.opts.Sources)
	if err := s.manager.Initialize(ctx); err != nil {
		s.state = StateTerminated
		return 1, err
	}
	s.manager.Configure()
	s.state = StateBoardsInitialized
	defer func() {
		s.manager.Close()
		s.state = StateTerminated
	}()

	collector := collect.New(s.driver, s.opts.Sources)

	cmd := exec.Command(s.opts.Argv[0], s.opts.Argv[1:]...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 1, errFactory.Wrap(errors.ErrSpawnProducer, err)
	}
	if err := cmd.Start(); err != nil {
		return 1, errFactory.Wrap(errors.ErrSpawnProducer, err)
	}
	s.state = StateRunning
	logger.Debug().Strs("argv", s.opts.Argv).Int("pid", cmd.Process.Pid).Msg("Producer started")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		scanner.Split(scanLines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			at := time.Now()
			if err := s.forward(line, at, collector); err != nil {
				logger.Warn().Err(err).Msg("Failed to forward line")
			}
		}
	}

	s.state = StateDraining
	cancelled := ctx.Err() != nil
	if cancelled && cmd.Process != nil {
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			logger.Debug().Err(err).Msg("Failed to signal producer")
		}
	}

	// Keep the reader goroutine moving so the pipe cannot fill up
	// while the producer shuts down.
	go func() {
		for range lines {
		}
	}()

	waitErr := cmd.Wait()
	if cancelled {
		logger.Debug().Msg("Producer terminated after cancellation")
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			if code := exitErr.ExitCode(); code >= 0 {
				return code, nil
			}
			// Killed by a signal.
			return 1, nil
		}

		return 1, errFactory.Wrap(errors.ErrAwaitProducer, waitErr)
	}

	return 0, nil
}

// scanLines splits on \n only, keeping any trailing \r so non-JSON
// lines pass through byte-identical.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// probe is the injected per-source value set. Failed reads are
// omitted, never null.
type probe struct {
	Temperature *float64 `json:"TEMP,omitempty"`
	ADC         *float64 `json:"ADC,omitempty"`
	CJC         *float64 `json:"CJC,omitempty"`
}

// forward emits one producer line, injecting TIMESTAMP and
// THERMOCOUPLE when the line is a JSON object and passing it through
// byte-for-byte otherwise. Original keys keep their exact bytes.
func (s *Session) forward(line string, at time.Time, collector *collect.Collector) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &obj); err != nil || obj == nil {
		_, err := fmt.Fprintln(s.opts.Out, line)
		return err
	}

	readings := collector.Collect(collect.Quantities{Temperature: true, Voltage: true, CJC: true})

	stamp, err := json.Marshal(FormatTimestamp(at, s.opts.TimeFormat))
	if err != nil {
		return err
	}
	obj["TIMESTAMP"] = stamp

	probes := make(map[string]probe, len(readings))
	for i := range readings {
		reading := &readings[i]
		p := probe{}
		if reading.HasTemperature {
			p.Temperature = &reading.Temperature
		}
		if reading.HasVoltage {
			p.ADC = &reading.Voltage
		}
		if reading.HasCJC {
			p.CJC = &reading.CJC
		}
		probes[reading.Key] = p
	}
	injected, err := json.Marshal(probes)
	if err != nil {
		return err
	}
	obj["THERMOCOUPLE"] = injected

	merged, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.opts.Out, string(merged))

	return err
}

// ProducerArgv wraps the user's producer arguments into the full
// command line: line-buffered via stdbuf, with --json appended when
// the caller did not ask for it.
func ProducerArgv(args []string) []string {
	argv := []string{"stdbuf", "-oL", "-eL", "cmg-cli", "get"}
	argv = append(argv, args...)

	for _, arg := range args {
		if arg == "--json" || arg == "-j" {
			return argv
		}
	}

	return append(argv, "--json")
}
