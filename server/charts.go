package server

import (
	"bytes"
	"fmt"
	"image/color"
	"net/http"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"rentvision/models"
)

var chartBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}

func (s *Server) handleTrendsChart(c *gin.Context) {
	res, ok := s.chartResult(c)
	if !ok {
		return
	}
	if len(res.Trends) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "insufficient data for a trend chart"})
		return
	}

	png, err := s.renderTrends(res)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleDistributionChart(c *gin.Context) {
	res, ok := s.chartResult(c)
	if !ok {
		return
	}
	if len(res.Distribution) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "insufficient data for a distribution chart"})
		return
	}

	png, err := s.renderDistribution(res)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// chartResult runs the same search as /search for the chart endpoints and
// writes the error response itself when the query cannot be served.
func (s *Server) chartResult(c *gin.Context) (*models.SearchResult, bool) {
	sel, missing := selectionFromQuery(c)
	if missing != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter: " + missing})
		return nil, false
	}

	res, err := s.stats.Search(c.Request.Context(), sel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if !res.Found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for this selection"})
		return nil, false
	}
	return res, true
}

func (s *Server) renderTrends(res *models.SearchResult) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Median Rent Trend - " + res.Location
	p.Y.Label.Text = "Median Rent (RM)"

	pts := make(plotter.XYs, len(res.Trends))
	names := make([]string, len(res.Trends))
	for i, t := range res.Trends {
		pts[i].X = float64(i)
		pts[i].Y = float64(t.Price)
		names[i] = t.Name
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("charts: trend line: %w", err)
	}
	line.Color = chartBlue
	points.Color = chartBlue
	p.Add(line, points)
	p.NominalX(names...)

	return s.encodePNG(p)
}

func (s *Server) renderDistribution(res *models.SearchResult) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Rent Distribution - " + res.Location
	p.Y.Label.Text = "Listings"
	p.X.Label.Text = "Rent Range (RM)"

	values := make(plotter.Values, len(res.Distribution))
	names := make([]string, len(res.Distribution))
	for i, b := range res.Distribution {
		values[i] = float64(b.Count)
		names[i] = b.Range
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("charts: distribution bars: %w", err)
	}
	bars.Color = chartBlue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return s.encodePNG(p)
}

func (s *Server) encodePNG(p *plot.Plot) ([]byte, error) {
	w := vg.Points(float64(s.cfg.ChartWidth) * 0.75)
	h := vg.Points(float64(s.cfg.ChartHeight) * 0.75)

	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("charts: encode: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("charts: write: %w", err)
	}
	return buf.Bytes(), nil
}
