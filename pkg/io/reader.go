// Package io provides readers for the scan files written by SDR power tools.
package io

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hed1ad/spectrashield/pkg/io/csv"
	"github.com/hed1ad/spectrashield/pkg/io/fftw"
	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// Reader is the interface for reading one scan snapshot.
type Reader interface {
	// Read returns every sample of the scan in file order.
	Read() (spectrum.Scan, error)

	// Close releases resources.
	Close() error
}

// Format identifies a scan file layout.
type Format string

const (
	// FormatFFTW is rtl_power_fftw output: "frequency power" per line.
	FormatFFTW Format = "fftw"
	// FormatCSV is rtl_power output: one comma separated row per hop.
	FormatCSV Format = "csv"
)

// Open opens path with the reader matching its layout.
func Open(path string) (Reader, error) {
	format, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return csv.NewReader(path)
	default:
		return fftw.NewReader(path)
	}
}

// ReadFile reads the whole scan stored at path.
func ReadFile(path string) (spectrum.Scan, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	scan, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return scan, nil
}

// Sniff inspects the first data line of path. Files without data lines are
// reported as FormatFFTW.
func Sniff(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ",") {
			return FormatCSV, nil
		}
		return FormatFFTW, nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return FormatFFTW, nil
}
