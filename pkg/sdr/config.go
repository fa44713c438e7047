package sdr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// RuntimeFFTW is the default acquisition tool.
	RuntimeFFTW = "rtl_power_fftw"

	BinsMin = 1
	BinsMax = 1 << 16
)

// Config describes one rtl_power_fftw acquisition.
type Config struct {
	// Runtime is the tool name or path.
	Runtime string `yaml:"runtime" json:"runtime"`

	FrequencyStart int64 `yaml:"frequencyStart" json:"frequencyStart"` // -f start (Hz)
	FrequencyEnd   int64 `yaml:"frequencyEnd" json:"frequencyEnd"`     // -f end (Hz)
	Bins           int   `yaml:"bins" json:"bins"`                     // -b FFT bins

	// Duration is the integration time, rounded up to whole seconds (-t).
	Duration time.Duration `yaml:"duration" json:"duration"`

	DeviceIndex int `yaml:"deviceIndex" json:"deviceIndex"` // -d (default: 0)
	Gain        int `yaml:"gain" json:"gain"`               // -g tenths of dB (default: automatic)

	// Output is the file the scan is written to.
	Output string `yaml:"output" json:"output"`
}

// DefaultConfig scans 442-443 MHz with 512 bins for 10 seconds.
func DefaultConfig() Config {
	return Config{
		Runtime:        RuntimeFFTW,
		FrequencyStart: 442_000_000,
		FrequencyEnd:   443_000_000,
		Bins:           512,
		Duration:       10 * time.Second,
		Output:         "scan.txt",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Runtime == "" {
		return fmt.Errorf("sdr.Config: runtime must be set")
	}
	if c.FrequencyStart <= 0 {
		return fmt.Errorf("sdr.Config: frequency start must be positive: %d", c.FrequencyStart)
	}
	if c.FrequencyEnd <= c.FrequencyStart {
		return fmt.Errorf("sdr.Config: frequency end must be greater than start: %d <= %d", c.FrequencyEnd, c.FrequencyStart)
	}
	if c.Bins < BinsMin || c.Bins > BinsMax {
		return fmt.Errorf("sdr.Config: invalid bins: %d, must be between %d and %d", c.Bins, BinsMin, BinsMax)
	}
	if c.Duration < time.Second {
		return fmt.Errorf("sdr.Config: duration must be at least 1 second: %s given", c.Duration)
	}
	if c.DeviceIndex < 0 {
		return fmt.Errorf("sdr.Config: device index must not be negative: %d", c.DeviceIndex)
	}
	if c.Gain < 0 {
		return fmt.Errorf("sdr.Config: gain must not be negative: %d", c.Gain)
	}
	if c.Output == "" {
		return fmt.Errorf("sdr.Config: output path must be set")
	}
	return nil
}

// Args returns the command line arguments for the runtime.
func (c *Config) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seconds := int64((c.Duration + time.Second - 1) / time.Second)
	args := []string{
		"-f", fmt.Sprintf("%d:%d", c.FrequencyStart, c.FrequencyEnd),
		"-b", strconv.Itoa(c.Bins),
		"-t", strconv.FormatInt(seconds, 10),
	}

	if c.DeviceIndex > 0 {
		args = append(args, "-d", strconv.Itoa(c.DeviceIndex))
	}
	if c.Gain > 0 {
		args = append(args, "-g", strconv.Itoa(c.Gain))
	}

	return args, nil
}

func (c *Config) String() string {
	args, err := c.Args()
	if err != nil {
		return fmt.Sprintf("sdr.Config: failed to build args: %s", err)
	}
	return fmt.Sprintf("%s %s > %s", c.Runtime, strings.Join(args, " "), c.Output)
}
