package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"fftw", "# header, with comma\n442000000 -50\n", FormatFFTW},
		{"csv", "\n2024-05-01, 10:00:00, 100, 300, 100, 8, -40\n", FormatCSV},
		{"empty", "# nothing\n", FormatFFTW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(writeFile(t, "scan", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Sniff(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	fftwPath := writeFile(t, "a.txt", "442000000 -50\n442000500 -40\n")
	scan, err := ReadFile(fftwPath)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Scan{{Frequency: 442000000, Power: -50}, {Frequency: 442000500, Power: -40}}, scan)

	csvPath := writeFile(t, "b.csv", "2024-05-01, 10:00:00, 100, 300, 100, 8, -40, -41\n")
	scan, err = ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Scan{{Frequency: 150, Power: -40}, {Frequency: 250, Power: -41}}, scan)

	badPath := writeFile(t, "c.txt", "442000000 loud\n")
	_, err = ReadFile(badPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading "+badPath)
}
