// Package fftw reads the text output of rtl_power_fftw.
//
// The format is a sequence of "frequency power" lines separated by
// whitespace. Lines starting with '#' carry metadata and blank lines separate
// sweeps; both are ignored.
package fftw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// Reader reads rtl_power_fftw files.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	meta    []string
}

// NewReader opens filename for reading.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := NewFromReader(file)
	r.file = file
	return r, nil
}

// NewFromReader reads lines from src. Close is a no-op for the returned Reader.
func NewFromReader(src io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(src)}
}

// Metadata returns the comment lines seen by Read, without the leading '#'.
func (r *Reader) Metadata() []string {
	return r.meta
}

// Read returns all samples in file order. A line that does not hold exactly
// two numbers fails the whole read.
func (r *Reader) Read() (spectrum.Scan, error) {
	var scan spectrum.Scan

	for line := 1; r.scanner.Scan(); line++ {
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			r.meta = append(r.meta, strings.TrimSpace(strings.TrimPrefix(text, "#")))
			continue
		}

		sample, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		scan = append(scan, sample)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	return scan, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func parseLine(text string) (spectrum.Sample, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return spectrum.Sample{}, fmt.Errorf("expected 2 columns, got %d", len(fields))
	}

	freq, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return spectrum.Sample{}, fmt.Errorf("invalid frequency: %w", err)
	}
	power, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return spectrum.Sample{}, fmt.Errorf("invalid power: %w", err)
	}

	return spectrum.Sample{Frequency: freq, Power: power}, nil
}
