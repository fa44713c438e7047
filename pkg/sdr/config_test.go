package sdr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigArgs(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   []string
	}{
		{
			name:   "defaults",
			modify: func(*Config) {},
			want:   []string{"-f", "442000000:443000000", "-b", "512", "-t", "10"},
		},
		{
			name: "device and gain",
			modify: func(c *Config) {
				c.DeviceIndex = 1
				c.Gain = 280
			},
			want: []string{"-f", "442000000:443000000", "-b", "512", "-t", "10", "-d", "1", "-g", "280"},
		},
		{
			name:   "duration rounds up",
			modify: func(c *Config) { c.Duration = 2500 * time.Millisecond },
			want:   []string{"-f", "442000000:443000000", "-b", "512", "-t", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)

			args, err := c.Args()
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"no runtime", func(c *Config) { c.Runtime = "" }, "runtime must be set"},
		{"zero start", func(c *Config) { c.FrequencyStart = 0 }, "frequency start must be positive"},
		{"end before start", func(c *Config) { c.FrequencyEnd = c.FrequencyStart }, "frequency end must be greater"},
		{"no bins", func(c *Config) { c.Bins = 0 }, "invalid bins"},
		{"too many bins", func(c *Config) { c.Bins = BinsMax + 1 }, "invalid bins"},
		{"short duration", func(c *Config) { c.Duration = 500 * time.Millisecond }, "at least 1 second"},
		{"negative device", func(c *Config) { c.DeviceIndex = -1 }, "device index"},
		{"negative gain", func(c *Config) { c.Gain = -5 }, "gain"},
		{"no output", func(c *Config) { c.Output = "" }, "output path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)

			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = c.Args()
			assert.Error(t, err)
			assert.Contains(t, c.String(), "failed to build args")
		})
	}
}

func TestConfigString(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "rtl_power_fftw -f 442000000:443000000 -b 512 -t 10 > scan.txt", c.String())
}
