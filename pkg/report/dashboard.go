package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hed1ad/spectrashield/pkg/anomaly"
	"github.com/hed1ad/spectrashield/pkg/spectrum"
)

// HistogramBins is the number of bins of the anomaly power histogram.
const HistogramBins = 10

// DashboardOptions configures WriteDashboard.
type DashboardOptions struct {
	Title string
	// Width and Height of each chart, CSS units.
	Width  string
	Height string
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.Title == "" {
		o.Title = "SpectraShield"
	}
	if o.Width == "" {
		o.Width = "100%"
	}
	if o.Height == "" {
		o.Height = "500px"
	}
	return o
}

// WriteDashboard renders scan as an HTML page. When res is not nil the
// anomalies are overlaid on the spectrum and, if there is more than one,
// their power distribution is charted below it.
func WriteDashboard(w io.Writer, scan spectrum.Scan, res *anomaly.Result, o DashboardOptions) error {
	o = o.withDefaults()

	page := components.NewPage()
	page.PageTitle = o.Title
	page.AddCharts(spectrumChart(scan, res, o))

	if res != nil && len(res.Anomalies()) > 1 {
		page.AddCharts(histogramChart(res.Histogram(HistogramBins), o))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func spectrumChart(scan spectrum.Scan, res *anomaly.Result, o DashboardOptions) *charts.Scatter {
	subtitle := fmt.Sprintf("%d samples", len(scan))
	if len(scan) > 0 {
		lo, hi := scan[0].Frequency, scan[len(scan)-1].Frequency
		subtitle = fmt.Sprintf("%s to %s, %d samples", FormatFrequency(lo), FormatFrequency(hi), len(scan))
	}
	if res != nil {
		subtitle += fmt.Sprintf(", %d anomalies (%s, %s)", res.Stats.Combined, res.Stats.Stability, res.Params.Mode)
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: "RF Power Spectrum", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Frequency (MHz)", NameLocation: "middle", NameGap: 25, Min: "dataMin", Max: "dataMax"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Power (dB/Hz)", NameLocation: "middle", NameGap: 40, Min: "dataMin", Max: "dataMax"}),
	)

	power := make([]opts.ScatterData, len(scan))
	for i, s := range scan {
		power[i] = opts.ScatterData{Value: []interface{}{s.Frequency / 1e6, s.Power}}
	}
	chart.AddSeries("Power", power,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1a73e8"}),
	)

	if res != nil {
		anomalies := res.Anomalies()
		points := make([]opts.ScatterData, len(anomalies))
		for i, a := range anomalies {
			points[i] = opts.ScatterData{Value: []interface{}{a.Frequency / 1e6, a.Power}}
		}
		chart.AddSeries("Anomaly", points,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
		)
	}

	return chart
}

func histogramChart(h anomaly.Histogram, o DashboardOptions) *charts.Bar {
	labels := make([]string, len(h.Counts))
	data := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		labels[i] = fmt.Sprintf("%.1f", (h.Edges[i]+h.Edges[i+1])/2)
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: o.Width, Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: "Anomaly Power Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Power (dB/Hz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels).
		AddSeries("anomalies", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
		)

	return bar
}
