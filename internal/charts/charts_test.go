package charts

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/analytics"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		series *analytics.Series
	}{
		{
			name: "line",
			series: &analytics.Series{
				Kind: analytics.ChartLine, Title: "Monthly Sales Trend",
				Labels: []string{"2010-Dec", "2011-Jan", "2011-Feb"},
				Values: []float64{35.64, 4.7, 12},
			},
		},
		{
			name: "bar",
			series: &analytics.Series{
				Kind: analytics.ChartBar, Title: "Sales by Day of Week",
				Labels: analytics.DayNames[:],
				Values: []float64{1, 2, 3, 4, 5, 0, 7},
			},
		},
		{
			name: "horizontal bar",
			series: &analytics.Series{
				Kind: analytics.ChartHorizontalBar, Title: "Top Products",
				Labels: []string{"LANTERN", "HOLDER"},
				Values: []float64{20.34, 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "charts", "chart.png")

			err := NewRenderer(slog.New(slog.DiscardHandler)).Render(tt.series, path)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngMagic), "output is a PNG")
		})
	}
}

func TestRenderer_HorizontalDoesNotReorderInput(t *testing.T) {
	s := &analytics.Series{
		Kind:   analytics.ChartHorizontalBar,
		Labels: []string{"A", "B"},
		Values: []float64{2, 1},
	}

	require.NoError(t, NewRenderer(nil).Render(s, filepath.Join(t.TempDir(), "h.png")))
	assert.Equal(t, []string{"A", "B"}, s.Labels)
	assert.Equal(t, []float64{2, 1}, s.Values)
}

func TestRenderer_Errors(t *testing.T) {
	r := NewRenderer(slog.New(slog.DiscardHandler))
	path := filepath.Join(t.TempDir(), "x.png")

	assert.Error(t, r.Render(nil, path))
	assert.Error(t, r.Render(&analytics.Series{Kind: analytics.ChartBar}, path))
	assert.Error(t, r.Render(&analytics.Series{Kind: analytics.ChartBar, Labels: []string{"a"}, Values: []float64{1, 2}}, path))
	assert.Error(t, r.Render(&analytics.Series{Kind: "pie", Labels: []string{"a"}, Values: []float64{1}}, path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
