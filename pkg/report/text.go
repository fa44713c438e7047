// Package report renders detection results for people: a plain text summary,
// a JSON document and an HTML dashboard.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hed1ad/spectrashield/pkg/anomaly"
)

// FormatFrequency renders hz with an SI prefix, e.g. "442.5 MHz".
func FormatFrequency(hz float64) string {
	return humanize.SIWithDigits(hz, 4, "Hz")
}

// WriteText writes the detection settings, metrics and anomaly table.
func WriteText(w io.Writer, res *anomaly.Result) error {
	p, s := res.Params, res.Stats

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Detection Settings")
	fmt.Fprintf(tw, "  Power Range:\t%.2f dB (%.2f to %.2f dB/Hz)\n", s.PowerRange, s.PowerMin, s.PowerMax)
	fmt.Fprintf(tw, "  Signal Stability:\t%s\n", s.Stability)
	fmt.Fprintf(tw, "  Method:\t%s\n", p.Mode.Describe())
	fmt.Fprintf(tw, "  Contamination Rate:\t%g\n", p.Contamination)
	fmt.Fprintf(tw, "  Standard Deviation Threshold:\t%.2fσ\n", p.StdThreshold)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Anomaly Metrics")
	fmt.Fprintf(tw, "  Samples:\t%d\n", len(res.Samples))
	fmt.Fprintf(tw, "  Total Anomalies:\t%d\n", s.Combined)
	fmt.Fprintf(tw, "  Isolation Forest:\t%d\n", s.IFCount)
	fmt.Fprintf(tw, "  Std Deviation:\t%d\n", s.StdCount)
	fmt.Fprintf(tw, "  Anomalies per dB:\t%.2f\n", s.AnomaliesPerDB)
	if err := tw.Flush(); err != nil {
		return err
	}

	anomalies := res.Anomalies()
	if len(anomalies) == 0 {
		_, err := fmt.Fprintln(w, "\nNo anomalies detected in the current scan.")
		return err
	}

	fmt.Fprintln(w, "\nAnomaly Details")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  FREQUENCY\tPOWER (dB/Hz)\tSCORE\tIF\tSTD")
	for _, a := range anomalies {
		fmt.Fprintf(tw, "  %s\t%.2f\t%.3f\t%s\t%s\n",
			FormatFrequency(a.Frequency), a.Power, a.IsolationScore, mark(a.IFFlag), mark(a.StdFlag))
	}
	return tw.Flush()
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "-"
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *anomaly.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
