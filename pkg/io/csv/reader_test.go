package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

const twoSweeps = `# rtl_power -f 100:400:100 -i 10 -
2024-05-01, 10:00:00, 100, 300, 100, 8, -40.5, -41.0
2024-05-01, 10:00:00, 300, 400, 100, 8, -39.0
2024-05-01, 10:00:10, 100, 300, 100, 8, -30.5, nan
2024-05-01, 10:00:10, 300, 400, 100, 8, -29.0
`

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want spectrum.Scan
	}{
		{
			name: "all rows",
			want: spectrum.Scan{
				{Frequency: 150, Power: -40.5},
				{Frequency: 250, Power: -41.0},
				{Frequency: 350, Power: -39.0},
				{Frequency: 150, Power: -30.5},
				{Frequency: 350, Power: -29.0},
			},
		},
		{
			name: "last sweep",
			opts: []Option{WithLastSweep(true)},
			want: spectrum.Scan{
				{Frequency: 150, Power: -30.5},
				{Frequency: 350, Power: -29.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFromReader(strings.NewReader(twoSweeps), tt.opts...)
			scan, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, scan)
			assert.NoError(t, r.Close())
		})
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "too few fields",
			input:   "2024-05-01, 10:00:00, 100, 300, 100, 8\n",
			wantErr: "line 1",
		},
		{
			name:    "bad start frequency",
			input:   "2024-05-01, 10:00:00, x, 300, 100, 8, -40\n",
			wantErr: "invalid start frequency",
		},
		{
			name:    "zero bin size",
			input:   "2024-05-01, 10:00:00, 100, 300, 0, 8, -40\n",
			wantErr: "invalid bin size",
		},
		{
			name:    "bad power",
			input:   "# header\n2024-05-01, 10:00:00, 100, 300, 100, 8, -40, loud\n",
			wantErr: "line 2: invalid power in bin 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromReader(strings.NewReader(tt.input)).Read()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewReaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.csv")
	require.NoError(t, os.WriteFile(path, []byte(twoSweeps), 0o644))

	r, err := NewReader(path, WithLastSweep(true))
	require.NoError(t, err)
	defer r.Close()

	scan, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, scan, 2)

	_, err = NewReader(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
