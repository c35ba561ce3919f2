// Package chart renders grouped bar charts as standalone SVG documents.
// The output has no external dependencies and opens in any browser,
// which keeps report bundles self-contained.
package chart

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
)

// Default canvas dimensions, shared by every report chart.
const (
	defaultWidth  = 900
	defaultHeight = 450
	defaultMargin = 60
)

// Series is one named group of bar values drawn in a single color.
// Values are positional: index i belongs to the chart's i-th label.
type Series struct {
	Name   string
	Values []float64
	Color  string
}

// BarChart describes a grouped bar chart. Each label owns one group of
// bars, one bar per series, plus a legend naming the series.
type BarChart struct {
	Title  string
	Labels []string
	Series []Series
	Width  int
	Height int
	Margin int
}

// NewBarChart creates a chart with the default canvas geometry.
func NewBarChart(title string, labels []string, series ...Series) *BarChart {
	return &BarChart{
		Title:  title,
		Labels: labels,
		Series: series,
		Width:  defaultWidth,
		Height: defaultHeight,
		Margin: defaultMargin,
	}
}

// Render writes the chart as an SVG document.
func (c *BarChart) Render(w io.Writer) error {
	_, err := w.Write([]byte(c.svg()))
	return err
}

// WriteFile renders the chart into path.
func (c *BarChart) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(c.svg()), 0644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func (c *BarChart) svg() string {
	width := float64(c.Width)
	height := float64(c.Height)
	margin := float64(c.Margin)
	chartWidth := width - 2*margin
	chartHeight := height - 2*margin

	maxValue := 0.0
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v > maxValue {
				maxValue = v
			}
		}
	}
	if len(c.Series) == 0 {
		maxValue = 1
	}

	groupCount := len(c.Labels)
	seriesCount := len(c.Series)
	groupWidth := chartWidth / float64(max(groupCount, 1))
	barWidth := groupWidth / float64(max(seriesCount, 1)) * 0.7

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", c.Width, c.Height)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")
	fmt.Fprintf(&b, `<text x="%.2f" y="30" text-anchor="middle" font-size="16">%s</text>`+"\n",
		width/2, html.EscapeString(c.Title))

	for idx, label := range c.Labels {
		x := margin + float64(idx)*groupWidth + groupWidth/2
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="12">%s</text>`+"\n",
			x, height-margin+20, html.EscapeString(label))
	}

	for seriesIdx, series := range c.Series {
		for idx, value := range series.Values {
			barHeight := 0.0
			if maxValue != 0 {
				barHeight = value / maxValue * chartHeight
			}
			x := margin + float64(idx)*groupWidth +
				(groupWidth-barWidth*float64(seriesCount))/2 +
				float64(seriesIdx)*barWidth
			y := height - margin - barHeight
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				x, y, barWidth, barHeight, series.Color)
		}
	}

	legendX := width - margin + 10
	legendY := margin
	for idx, series := range c.Series {
		y := legendY + float64(idx)*20
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="12" height="12" fill="%s"/>`+"\n",
			legendX, y-10, series.Color)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="12">%s</text>`+"\n",
			legendX+18, y, html.EscapeString(series.Name))
	}

	b.WriteString("</svg>\n")
	return b.String()
}
