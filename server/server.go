package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"

	"github.com/gin-gonic/gin"

	"rentvision/config"
	"rentvision/dashboard"
	"rentvision/models"
	"rentvision/services"
	"rentvision/utils"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// Server wires the stats engine to the HTTP surface: the /options and
// /search JSON API, the chart image endpoints and the server-rendered
// dashboard page.
type Server struct {
	cfg    *config.Config
	logger *utils.Logger
	stats  *services.StatsService
	tmpl   *template.Template
}

// New creates a Server over the given stats engine.
func New(cfg *config.Config, logger *utils.Logger, stats *services.StatsService) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return &Server{cfg: cfg, logger: logger, stats: stats, tmpl: tmpl}, nil
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), CORS(), s.accessLog())

	r.GET("/", s.handleDashboard)
	r.GET("/options", s.handleOptions)
	r.GET("/search", s.handleSearch)
	r.GET("/charts/trends.png", s.handleTrendsChart)
	r.GET("/charts/distribution.png", s.handleDistributionChart)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("[http] Listening on %s", s.cfg.ListenAddr)
	return s.Router().Run(s.cfg.ListenAddr)
}

func (s *Server) handleOptions(c *gin.Context) {
	opts, err := s.stats.Options(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, opts)
}

// selectionFromQuery validates the three required query params; the empty
// field name is returned for the 400 message.
func selectionFromQuery(c *gin.Context) (models.Selection, string) {
	sel := models.Selection{
		State:     c.Query("state"),
		District:  c.Query("district"),
		HouseType: c.Query("houseType"),
	}
	switch {
	case sel.State == "":
		return sel, "state"
	case sel.District == "":
		return sel, "district"
	case sel.HouseType == "":
		return sel, "houseType"
	}
	return sel, ""
}

func (s *Server) handleSearch(c *gin.Context) {
	sel, missing := selectionFromQuery(c)
	if missing != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter: " + missing})
		return
	}

	res, err := s.stats.Search(c.Request.Context(), sel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// pageData is everything the dashboard template needs for one render.
type pageData struct {
	LoadError string

	Selection   models.Selection
	States      []string
	Districts   []string
	TypeOptions []dashboard.TypeOption

	Notice   string
	Rendered *dashboard.Rendered

	MapCenter   [2]float64
	MarkersJSON template.JS
	ChartQuery  template.URL
}

// handleDashboard drives a dashboard view through one request: load the
// options, replay the selection from the query string, search when the
// selection is complete and render the page.
func (s *Server) handleDashboard(c *gin.Context) {
	view := dashboard.NewView(s.stats, s.logger)

	data := pageData{}
	if err := view.Load(c.Request.Context()); err != nil {
		data.LoadError = "Could not load search options. Please try again later."
		s.render(c, data)
		return
	}

	if state := c.Query("state"); state != "" {
		view.SelectState(state)
		if district := c.Query("district"); district != "" {
			view.SelectDistrict(district)
			if houseType := c.Query("houseType"); houseType != "" {
				view.SelectType(houseType)
			}
		}
	}

	if view.Selection().Complete() {
		if err := view.Search(c.Request.Context()); err != nil {
			s.logger.Error("[http] Dashboard search failed: %v", err)
		}
	}

	opts, _ := s.stats.Options(c.Request.Context())
	states := make([]string, 0, len(opts.LocationTree))
	for state := range opts.LocationTree {
		states = append(states, state)
	}
	sort.Strings(states)

	data.Selection = view.Selection()
	data.States = states
	data.Districts = view.Districts()
	data.TypeOptions = view.TypeOptions()
	data.Notice = view.Notice()
	data.Rendered = view.Render()
	data.MapCenter = view.MapCenter()

	if data.Rendered != nil {
		markers, err := json.Marshal(data.Rendered.Markers)
		if err == nil {
			data.MarkersJSON = template.JS(markers)
		}
		sel := view.Result().Query
		data.ChartQuery = template.URL(fmt.Sprintf("state=%s&district=%s&houseType=%s",
			url.QueryEscape(sel.State), url.QueryEscape(sel.District), url.QueryEscape(sel.HouseType)))
	}

	s.render(c, data)
}

func (s *Server) render(c *gin.Context, data pageData) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.tmpl.Execute(c.Writer, data); err != nil {
		s.logger.Error("[http] Template render failed: %v", err)
	}
}
