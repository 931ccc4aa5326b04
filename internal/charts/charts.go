// Package charts renders report series as PNG images with gonum/plot.
package charts

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"salesreport/internal/analytics"
)

// Default image sizes, matching the figure sizes of the reports
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	wideWidth     = 15 * vg.Inch
	tallHeight    = 8 * vg.Inch
	barWidth      = 20
)

// Renderer draws analytics series to image files
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer. A nil logger uses slog.Default().
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render draws s to path. The image format follows the file extension.
func (r *Renderer) Render(s *analytics.Series, path string) error {
	if s == nil || len(s.Values) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("series has %d labels for %d values", len(s.Labels), len(s.Values))
	}

	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	p.Add(plotter.NewGrid())

	width, height := DefaultWidth, DefaultHeight

	switch s.Kind {
	case analytics.ChartLine:
		if err := addLine(p, s); err != nil {
			return err
		}
		width = wideWidth
	case analytics.ChartBar:
		if err := addBars(p, s.Labels, s.Values, false); err != nil {
			return err
		}
	case analytics.ChartHorizontalBar:
		// Highest value first means it is drawn at the top
		labels := slices.Clone(s.Labels)
		values := slices.Clone(s.Values)
		slices.Reverse(labels)
		slices.Reverse(values)
		if err := addBars(p, labels, values, true); err != nil {
			return err
		}
		width, height = 14*vg.Inch, tallHeight
	default:
		return fmt.Errorf("unsupported chart kind %q", s.Kind)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}

	r.logger.Info("Chart saved",
		slog.String("title", s.Title),
		slog.String("path", path),
		slog.Int("points", len(s.Values)))

	return nil
}

func addLine(p *plot.Plot, s *analytics.Series) error {
	pts := make(plotter.XYs, len(s.Values))
	for i, v := range s.Values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build line: %w", err)
	}
	p.Add(line, points)
	p.NominalX(s.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	return nil
}

func addBars(p *plot.Plot, labels []string, values []float64, horizontal bool) error {
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(barWidth))
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	bars.Horizontal = horizontal
	p.Add(bars)

	if horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
	}
	return nil
}
