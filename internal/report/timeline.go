package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// maxTimelineContacts caps the contact bar chart.
const maxTimelineContacts = 40

// WriteTimeline renders s as an HTML page with the active node and edge
// counts per frame and the longest contacts.
func WriteTimeline(w io.Writer, s *Summary) error {
	x := make([]int64, len(s.Frames))
	nodes := make([]opts.LineData, len(s.Frames))
	edges := make([]opts.LineData, len(s.Frames))
	for i, f := range s.Frames {
		x[i] = f.Time
		nodes[i] = opts.LineData{Value: f.Nodes}
		edges[i] = opts.LineData{Value: f.Edges}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Contact timeline", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Active entities and contacts", Subtitle: fmt.Sprintf("run=%s frames=%d threshold=%g", s.RunID, len(s.Frames), s.Threshold)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time", NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries("nodes", nodes).
		AddSeries("edges", edges)

	top := topContacts(s.Contacts, maxTimelineContacts)
	labels := make([]string, len(top))
	frames := make([]opts.BarData, len(top))
	for i, c := range top {
		labels[i] = c.A + " / " + c.B
		frames[i] = opts.BarData{Value: c.Frames}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Longest contacts", Subtitle: fmt.Sprintf("%d pairs", len(s.Contacts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("frames in contact", frames,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(line, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render timeline: %w", err)
	}
	return nil
}

// topContacts returns up to n contacts with the most frames, ties by ID.
func topContacts(cs []Contact, n int) []Contact {
	out := make([]Contact, len(cs))
	copy(out, cs)
	sortContacts(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
