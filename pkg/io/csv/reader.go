// Package csv reads the comma separated output of rtl_power.
//
// Each row describes one hop of a sweep:
//
//	date, time, hz_low, hz_high, hz_step, samples, dB, dB, ...
//
// and expands to one sample per dB column, placed at the bin centre.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

const headerFields = 6

// Reader reads rtl_power CSV files.
type Reader struct {
	file      *os.File
	reader    *csv.Reader
	lastSweep bool
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithLastSweep keeps only the final sweep when the file holds several.
func WithLastSweep(last bool) Option {
	return func(r *Reader) {
		r.lastSweep = last
	}
}

// NewReader opens filename for reading.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:   file,
		reader: newCSV(file),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// NewFromReader reads rows from src. Close is a no-op for the returned Reader.
func NewFromReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{reader: newCSV(src)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newCSV(src io.Reader) *csv.Reader {
	cr := csv.NewReader(src)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// Read returns the samples of every row, or of the last sweep only.
func (r *Reader) Read() (spectrum.Scan, error) {
	var (
		scan    spectrum.Scan
		prevLow = math.Inf(-1)
	)

	for {
		record, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := r.reader.FieldPos(0)
		low, samples, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		// A hop starting at or below the previous one begins a new sweep.
		if r.lastSweep && low <= prevLow {
			scan = scan[:0]
		}
		prevLow = low
		scan = append(scan, samples...)
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

// parseRow converts one hop into samples. Bins rtl_power could not measure
// ("nan") are skipped.
func parseRow(record []string) (float64, []spectrum.Sample, error) {
	if len(record) <= headerFields {
		return 0, nil, fmt.Errorf("expected more than %d fields, got %d", headerFields, len(record))
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid start frequency: %w", err)
	}
	step, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid bin size: %w", err)
	}
	if step <= 0 {
		return 0, nil, fmt.Errorf("invalid bin size: %g", step)
	}

	samples := make([]spectrum.Sample, 0, len(record)-headerFields)
	for i, field := range record[headerFields:] {
		field = strings.TrimSpace(field)
		power, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if strings.EqualFold(strings.TrimLeft(field, "+-"), "nan") {
				continue
			}
			return 0, nil, fmt.Errorf("invalid power in bin %d: %w", i, err)
		}
		if math.IsNaN(power) || math.IsInf(power, 0) {
			continue
		}

		samples = append(samples, spectrum.Sample{
			Frequency: low + float64(i)*step + step/2,
			Power:     power,
		})
	}

	return low, samples, nil
}
