// Package httpctl exposes the engine controls over HTTP.
package httpctl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quasilyte/handsynth"
)

// Controller is the part of handsynth.Engine used by the HTTP handlers.
type Controller interface {
	PushControl(e handsynth.ControlEvent) bool
	Status() handsynth.Status
}

type Config struct {
	// MapNames are reported by the status endpoint.
	// Their order should match the engine instrument bank.
	MapNames []string

	// A nil value will use slog.Default().
	Logger *slog.Logger
}

type server struct {
	ctrl     Controller
	mapNames []string
	logger   *slog.Logger
}

// NewHandler returns the control API router:
//
//	GET  /status
//	POST /shape   {"shape":"saw"}
//	POST /map     {"index":1}
//	POST /volume  {"volume":0.5}
//	POST /release
//
// A request that can't be queued because the engine
// control channel is full gets 503.
func NewHandler(ctrl Controller, config Config) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &server{
		ctrl:     ctrl,
		mapNames: config.MapNames,
		logger:   config.Logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logRequests)

	r.GET("/status", s.getStatus)
	r.POST("/shape", s.setShape)
	r.POST("/map", s.selectMap)
	r.POST("/volume", s.setVolume)
	r.POST("/release", s.releaseAll)

	return r
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http control listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("http request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"elapsed", time.Since(start))
}

type statusResponse struct {
	Timestamp     int64    `json:"timestamp"`
	Voices        int      `json:"voices"`
	Sounding      []string `json:"sounding"`
	SelectedMap   int      `json:"selected_map"`
	MapName       string   `json:"map_name,omitempty"`
	Shape         string   `json:"shape,omitempty"`
	Volume        float64  `json:"volume"`
	Buffers       uint64   `json:"buffers"`
	FramesApplied uint64   `json:"frames_applied"`
}

func (s *server) getStatus(c *gin.Context) {
	st := s.ctrl.Status()
	resp := statusResponse{
		Timestamp:     st.Timestamp,
		Voices:        st.Voices,
		Sounding:      []string{},
		SelectedMap:   st.SelectedMap,
		Volume:        st.Volume,
		Buffers:       st.Buffers,
		FramesApplied: st.FramesApplied,
	}
	for d := handsynth.Digit(0); d < handsynth.NumDigits; d++ {
		if st.IsSounding(d) {
			resp.Sounding = append(resp.Sounding, d.String())
		}
	}
	if st.SelectedMap >= 0 && st.SelectedMap < len(s.mapNames) {
		resp.MapName = s.mapNames[st.SelectedMap]
	}
	if st.HasShape {
		resp.Shape = st.Shape.String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) setShape(c *gin.Context) {
	var req struct {
		Shape string `json:"shape" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shape, ok := handsynth.ParseShape(req.Shape)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown shape " + req.Shape})
		return
	}
	s.push(c, handsynth.SetShapeEvent(shape))
}

func (s *server) selectMap(c *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Index < 0 || (s.mapNames != nil && *req.Index >= len(s.mapNames)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map index is out of range"})
		return
	}
	s.push(c, handsynth.SelectMapEvent(*req.Index))
}

func (s *server) setVolume(c *gin.Context) {
	var req struct {
		Volume *float64 `json:"volume" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Volume < 0 || *req.Volume > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volume should be in [0, 1]"})
		return
	}
	s.push(c, handsynth.SetVolumeEvent(*req.Volume))
}

func (s *server) releaseAll(c *gin.Context) {
	s.push(c, handsynth.ReleaseAllEvent())
}

func (s *server) push(c *gin.Context, e handsynth.ControlEvent) {
	if !s.ctrl.PushControl(e) {
		s.logger.Warn("control channel is full", "event", e.Kind.String())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "control channel is full, retry later"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": e.Kind.String()})
}
