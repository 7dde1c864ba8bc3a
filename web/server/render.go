package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// handleRender renders a single frame and responds with it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseSceneRequest(r, 0, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Performance warning
	if req.Width*req.Height > 1920*1080 && req.Limit > 8 {
		s.logger.Warn().Int("width", req.Width).Int("height", req.Height).Int("limit", req.Limit).
			Msg("large image with deep reflections may render slowly")
	}

	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	frameRenderer := renderer.NewFrameRenderer(
		integrator.NewWhitted(),
		renderer.RenderConfig{NumWorkers: req.Workers, Parallel: s.config.Parallel},
		s.logger.With().Str("render", renderID).Logger(),
	)
	defer frameRenderer.Close()

	fb, stats, err := frameRenderer.RenderFrame(sceneObj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	data, err := output.EncodePNG(fb)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().
		Str("render", renderID).
		Str("scene", req.Scene).
		Int("width", req.Width).
		Int("height", req.Height).
		Int("workers", stats.Workers).
		Dur("elapsed", stats.Elapsed).
		Msg("frame served")

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Workers", strconv.Itoa(stats.Workers))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
