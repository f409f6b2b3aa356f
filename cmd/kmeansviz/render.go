package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hupe1980/kmeanstep"
	"github.com/hupe1980/kmeanstep/dataset"
)

// renderSteps writes an HTML page with one scatter chart per state.
func renderSteps(w io.Writer, states []kmeanstep.State) error {
	page := components.NewPage()
	page.PageTitle = "KMeans Clustering"

	for _, st := range states {
		page.AddCharts(stepChart(st))
	}
	return page.Render(w)
}

func stepChart(st kmeanstep.State) *charts.Scatter {
	subtitle := fmt.Sprintf("step %d", st.Step)
	if st.Converged {
		subtitle = fmt.Sprintf("converged in %d steps", st.Step)
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "800px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "KMeans Clustering", Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", Min: dataset.DefaultMin, Max: dataset.DefaultMax}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", Min: dataset.DefaultMin, Max: dataset.DefaultMax}),
	)

	for _, ser := range seriesByLabel(st) {
		if len(ser.data) > 0 {
			sc.AddSeries(ser.name, ser.data)
		}
	}

	centroids := make([]opts.ScatterData, len(st.Centroids))
	for i, c := range st.Centroids {
		centroids[i] = opts.ScatterData{Value: []interface{}{c.X, c.Y}, Symbol: "diamond", SymbolSize: 16}
	}
	sc.AddSeries("Centroids", centroids)
	return sc
}

type series struct {
	name string
	data []opts.ScatterData
}

// seriesByLabel groups points per cluster label in label order, followed by
// an "Unassigned" series for points without a label.
func seriesByLabel(st kmeanstep.State) []series {
	out := make([]series, len(st.Centroids)+1)
	for j := range st.Centroids {
		out[j].name = fmt.Sprintf("Cluster %d", j)
	}
	out[len(st.Centroids)].name = "Unassigned"

	for i, p := range st.Points {
		slot := len(st.Centroids)
		if i < len(st.Assignment) && st.Assignment[i] != kmeanstep.Unassigned {
			slot = st.Assignment[i]
		}
		out[slot].data = append(out[slot].data, opts.ScatterData{Value: []interface{}{p.X, p.Y}, SymbolSize: 8})
	}
	return out
}
