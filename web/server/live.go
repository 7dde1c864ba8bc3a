package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const liveWriteTimeout = 2 * time.Second

// LiveEvent is a message pushed to a live view client
type LiveEvent struct {
	Type string      `json:"type"` // "frame", "console", "error"
	Data interface{} `json:"data"`
}

// FrameUpdate is the payload of a "frame" event
type FrameUpdate struct {
	Index     int         `json:"index"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	ImageData string      `json:"imageData"` // Base64 encoded PNG thumbnail
	ElapsedMs int64       `json:"elapsedMs"`
	Workers   int         `json:"workers"`
	Imbalance float64     `json:"imbalance"`
	Camera    CameraState `json:"camera"`
	Lights    []float64   `json:"lights"` // intensities
}

type CameraState struct {
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
}

// ControlMessage is sent by a live view client to change the scene between frames
type ControlMessage struct {
	Type  string  `json:"type"` // "move", "rotate", "intensity", "reset"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Delta float64 `json:"delta"`
}

// liveSession owns the scene of one websocket client. Only the session loop touches it.
type liveSession struct {
	initial  *scene.Scene
	working  *scene.Scene
	renderer *renderer.FrameRenderer
	thumb    int
	events   chan<- LiveEvent
	controls <-chan ControlMessage
	logger   zerolog.Logger
}

// handleLive upgrades to a websocket and streams frames of the requested scene,
// re-rendering whenever the client moves the camera or changes the lights
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	_, sceneObj, err := s.parseSceneRequest(r, s.config.Server.LiveWidth, s.config.Server.LiveHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventChan := make(chan LiveEvent, 16)
	writerDone := make(chan struct{})
	go s.writeLiveEvents(ctx, cancel, conn, eventChan, writerDone)

	controlChan := make(chan ControlMessage, 16)
	go s.readControls(ctx, cancel, conn, controlChan)

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("live-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan, s.logger)
	go s.streamConsoleMessages(ctx, consoleChan, eventChan)

	frameRenderer := renderer.NewFrameRenderer(integrator.NewWhitted(), s.config.RenderConfig(), logger)
	defer frameRenderer.Close()

	session := &liveSession{
		initial:  sceneObj,
		working:  sceneObj.Clone(),
		renderer: frameRenderer,
		thumb:    s.config.Server.ThumbnailWidth,
		events:   eventChan,
		controls: controlChan,
		logger:   logger,
	}
	logger.Info().Int("width", sceneObj.Canvas.Width).Int("height", sceneObj.Canvas.Height).
		Int("workers", frameRenderer.NumWorkers()).Msg("live session started")

	session.run(ctx)

	cancel()
	<-writerDone
}

// run renders a frame, then waits for controls and renders again until the client leaves
func (ls *liveSession) run(ctx context.Context) {
	for index := 0; ; index++ {
		if err := ls.renderFrame(ctx, index); err != nil {
			ls.send(ctx, LiveEvent{Type: "error", Data: err.Error()})
			return
		}
		if !ls.waitForChanges(ctx) {
			return
		}
	}
}

func (ls *liveSession) renderFrame(ctx context.Context, index int) error {
	fb, stats, err := ls.renderer.RenderFrame(ls.working)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	data, err := output.ThumbnailPNG(fb, ls.thumb)
	if err != nil {
		return err
	}

	lights := make([]float64, len(ls.working.Lights))
	for i, light := range ls.working.Lights {
		lights[i] = light.Intensity
	}

	ls.send(ctx, LiveEvent{Type: "frame", Data: FrameUpdate{
		Index:     index,
		Width:     fb.Width,
		Height:    fb.Height,
		ImageData: base64.StdEncoding.EncodeToString(data),
		ElapsedMs: stats.Elapsed.Milliseconds(),
		Workers:   stats.Workers,
		Imbalance: stats.Imbalance(),
		Camera: CameraState{
			Position: vecArray(ls.working.Camera.Position),
			Rotation: vecArray(ls.working.Camera.Rotation),
		},
		Lights: lights,
	}})
	return nil
}

// waitForChanges blocks until at least one control changed the scene, applying every
// control already queued. Returns false when the session is over.
func (ls *liveSession) waitForChanges(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case msg := <-ls.controls:
			changed := ls.apply(ctx, msg)
			for pending := true; pending; {
				select {
				case msg := <-ls.controls:
					changed = ls.apply(ctx, msg) || changed
				default:
					pending = false
				}
			}
			if changed {
				return true
			}
		}
	}
}

// apply changes the working scene and reports whether it was modified
func (ls *liveSession) apply(ctx context.Context, msg ControlMessage) bool {
	switch msg.Type {
	case "move":
		ls.working.Camera.MoveBy(core.NewVec3(msg.X, msg.Y, msg.Z))
	case "rotate":
		ls.working.Camera.RotateBy(core.NewVec3(msg.X, msg.Y, msg.Z))
	case "intensity":
		ls.working.AdjustLightIntensity(msg.Delta)
	case "reset":
		ls.working = ls.initial.Clone()
	default:
		ls.send(ctx, LiveEvent{Type: "error", Data: "unknown control: " + msg.Type})
		return false
	}
	ls.logger.Debug().Str("control", msg.Type).Msg("scene changed")
	return true
}

func (ls *liveSession) send(ctx context.Context, event LiveEvent) {
	select {
	case ls.events <- event:
	case <-ctx.Done():
	}
}

// writeLiveEvents handles writing all websocket messages in a single goroutine
func (s *Server) writeLiveEvents(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, eventChan <-chan LiveEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event := <-eventChan:
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error().Err(err).Str("type", event.Type).Msg("marshal live event")
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug().Err(err).Msg("write live event")
				cancel()
				return
			}

		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// readControls decodes client messages until the connection fails
func (s *Server) readControls(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, controlChan chan<- ControlMessage) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug().Err(err).Msg("invalid control message")
			continue
		}
		select {
		case controlChan <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages to the client, dropping them when the client is slow
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, eventChan chan<- LiveEvent) {
	for {
		select {
		case msg := <-consoleChan:
			select {
			case eventChan <- LiveEvent{Type: "console", Data: msg}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}
		case <-ctx.Done():
			return
		}
	}
}
