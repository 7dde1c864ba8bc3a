package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Limits for request parameters that are not bounded by the config
const (
	maxWorkers          = 256
	maxReflectionsLimit = 16
)

//go:embed static
var staticFiles embed.FS

// Server handles web requests for the raytracer
type Server struct {
	config   *config.Config
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SceneRequest holds the scene parameters shared by every endpoint
type SceneRequest struct {
	Scene        string             `json:"scene"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	FOV          float64            `json:"fov"` // degrees
	Limit        int                `json:"limit"`
	HitSelection scene.HitSelection `json:"-"`
	Workers      int                `json:"workers"`
}

// Handler returns the HTTP handler with every route registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve the live view page
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	// Live view
	mux.HandleFunc("/ws/live", s.handleLive)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.config.Server.Addr).Msg("starting web server")
	return http.ListenAndServe(s.config.Server.Addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseSceneRequest loads the requested scene and applies the validated query parameters.
// Dimensions default to the given values, or to the scene's own canvas when they are zero.
func (s *Server) parseSceneRequest(r *http.Request, defaultWidth, defaultHeight int) (*SceneRequest, *scene.Scene, error) {
	query := r.URL.Query()

	req := &SceneRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.config.Scene
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	if defaultWidth <= 0 {
		defaultWidth = sceneObj.Canvas.Width
	}
	if defaultHeight <= 0 {
		defaultHeight = sceneObj.Canvas.Height
	}
	defaultWidth = min(defaultWidth, s.config.Server.MaxWidth)
	defaultHeight = min(defaultHeight, s.config.Server.MaxHeight)

	if req.Width, err = parseIntParam(query, "width", defaultWidth, 1, s.config.Server.MaxWidth); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaultHeight, 1, s.config.Server.MaxHeight); err != nil {
		return nil, nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", sceneObj.Canvas.FOV*180/math.Pi, 1, 179); err != nil {
		return nil, nil, err
	}
	if req.Limit, err = parseIntParam(query, "limit", sceneObj.Options.ReflectionsLimit, 0, maxReflectionsLimit); err != nil {
		return nil, nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", s.config.Workers, 0, maxWorkers); err != nil {
		return nil, nil, err
	}
	req.HitSelection = sceneObj.Options.HitSelection
	if hit := query.Get("hit"); hit != "" {
		if req.HitSelection, err = scene.ParseHitSelection(hit); err != nil {
			return nil, nil, err
		}
	}

	sceneObj.Canvas.Width = req.Width
	sceneObj.Canvas.Height = req.Height
	sceneObj.Canvas.FOV = req.FOV * math.Pi / 180
	sceneObj.Options.ReflectionsLimit = req.Limit
	sceneObj.Options.HitSelection = req.HitSelection
	if err := sceneObj.Validate(); err != nil {
		return nil, nil, err
	}

	return req, sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene creates a built-in scene by name, or loads a scene file by its "file:" id
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	if !strings.HasPrefix(sceneName, "file:") {
		return scene.ByName(sceneName)
	}

	files, err := scene.ListSceneFiles(s.config.ScenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == sceneName {
			return loaders.LoadScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene: %s", sceneName)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.config.Scene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":            sceneObj.Canvas.Width,
			"height":           sceneObj.Canvas.Height,
			"fov":              sceneObj.Canvas.FOV * 180 / math.Pi,
			"reflectionsLimit": sceneObj.Options.ReflectionsLimit,
			"hitSelection":     sceneObj.Options.HitSelection.String(),
			"background":       sceneObj.Options.BackgroundColor,
			"objects":          len(sceneObj.Objects),
			"lights":           len(sceneObj.Lights),
		},
		"limits": map[string]interface{}{
			"width": map[string]int{
				"min": 1,
				"max": s.config.Server.MaxWidth,
			},
			"height": map[string]int{
				"min": 1,
				"max": s.config.Server.MaxHeight,
			},
			"limit": map[string]int{
				"min": 0,
				"max": maxReflectionsLimit,
			},
			"workers": map[string]int{
				"min": 0,
				"max": maxWorkers,
			},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
