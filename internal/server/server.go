// Package server exposes the store's query API over HTTP plus a WebSocket
// live stream. It is read-only glue: every handler maps request parameters to
// a store call and writes the result back as JSON.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"starlog/internal/daterange"
	"starlog/internal/hub"
	"starlog/internal/metrics"
	"starlog/internal/model"
	"starlog/internal/store"
)

// Server holds the Gin engine and its collaborators.
type Server struct {
	engine *gin.Engine
	store  *store.Store
	hub    *hub.Hub
	log    *zap.Logger
	port   string
}

// New creates the query server.
func New(st *store.Store, h *hub.Hub, m *metrics.Metrics, log *zap.Logger, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		engine: engine,
		store:  st,
		hub:    h,
		log:    log,
		port:   port,
	}
	s.setupRoutes(m)
	return s
}

func (s *Server) setupRoutes(m *metrics.Metrics) {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/api/state", s.handleState)
	s.engine.GET("/api/events", s.handleEvents)
	s.engine.GET("/api/events/recent", s.handleRecent)
	s.engine.GET("/api/history", s.handleHistory)
	s.engine.GET("/api/stats", s.handleStats)
	s.engine.GET("/ws", s.handleWebSocket)

	if m != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	stats := s.store.Statistics()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime":          stats.Uptime,
		"events_total":    stats.TotalProcessed,
		"buffer_size":     stats.BufferSize,
		"buffer_capacity": stats.BufferCapacity,
		"dropped":         s.hub.Dropped(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.GetGameState())
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Statistics())
}

// handleEvents maps query parameters onto an EventFilter.
func (s *Server) handleEvents(c *gin.Context) {
	filter := model.EventFilter{
		EventTypes:   splitParam(c.Query("types")),
		SystemNames:  splitParam(c.Query("system")),
		ContainsText: c.Query("text"),
		SortOrder:    model.SortOrder(c.DefaultQuery("sort", string(model.SortNewestFirst))),
	}

	for _, name := range splitParam(c.Query("categories")) {
		if !model.ValidCategory(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + name})
			return
		}
		filter.Categories = append(filter.Categories, model.EventCategory(name))
	}

	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time: " + err.Error()})
			return
		}
		filter.StartTime = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time: " + err.Error()})
			return
		}
		filter.EndTime = &t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.MaxResults = n
	}
	if v := c.Query("min_importance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_importance"})
			return
		}
		filter.MinImportance = n
	}

	events := s.store.QueryEvents(filter)
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (s *Server) handleRecent(c *gin.Context) {
	minutes := 60
	if v := c.Query("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minutes"})
			return
		}
		minutes = n
	}
	events := s.store.GetRecentEvents(minutes)
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// handleHistory accepts relative date expressions like "last week" or
// "3 days ago" for the start and end bounds.
func (s *Server) handleHistory(c *gin.Context) {
	q := store.HistoricalQuery{
		StartExpr:  c.Query("start"),
		EndExpr:    c.Query("end"),
		EventTypes: splitParam(c.Query("types")),
		SystemName: c.Query("system"),
		SortOrder:  model.SortOrder(c.DefaultQuery("sort", string(model.SortNewestFirst))),
	}
	for _, name := range splitParam(c.Query("categories")) {
		if !model.ValidCategory(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + name})
			return
		}
		q.Categories = append(q.Categories, model.EventCategory(name))
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = n
	}

	result, err := s.store.QueryHistorical(q)
	if err != nil {
		var parseErr *daterange.ParseError
		var rangeErr *daterange.RangeError
		switch {
		case errors.As(err, &parseErr), errors.As(err, &rangeErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.log.Error("historical query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// splitParam parses a comma-separated query parameter into a slice.
func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Start runs the server. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("query server listening", zap.String("port", s.port))
	return s.engine.Run(":" + s.port)
}
