package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"codeberg.org/witt/thermoctl/internal/errors"
)

const exampleHeader = `# thermoctl configuration
#
# Each source binds one thermocouple channel. address selects the board
# (0-7), channel the input (0-3). Omitted fields receive defaults:
# tc_type K, cal_slope %v, cal_offset %v, update_interval 1.
`

type exampleFile struct {
	LogLevel  string   `yaml:"log_level"`
	Telemetry bool     `yaml:"telemetry"`
	Database  string   `yaml:"database"`
	Sources   []Source `yaml:"sources"`
}

// ExampleYAML renders a starter configuration with two sources.
func ExampleYAML() ([]byte, error) {
	errFactory := errors.New()

	example := exampleFile{
		LogLevel:  DefaultLogLevel,
		Telemetry: false,
		Database:  "/var/lib/thermoctl/readings.db",
		Sources: []Source{
			NewSource("FURNACE_INLET", 0, 0, "K"),
			NewSource("FURNACE_OUTLET", 0, 1, "J"),
		},
	}

	body, err := yaml.Marshal(&example)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	header := fmt.Sprintf(exampleHeader, DefaultCalibrationSlope, DefaultCalibrationOffset)

	return append([]byte(header+"\n"), body...), nil
}

// WriteExample writes the starter configuration to path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	errFactory := errors.New()

	body, err := ExampleYAML()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	return nil
}
