package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/rs/zerolog"
)

// RenderConfig contains configuration for the frame renderer
type RenderConfig struct {
	NumWorkers int  // Number of parallel workers (0 = use CPU count)
	Parallel   bool // When false a single worker renders the whole frame
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		Parallel:   true,
	}
}

// FrameRenderer renders whole frames by splitting them into one horizontal band per worker.
// The worker pool is started once and reused for every frame until Close is called.
type FrameRenderer struct {
	integrator integrator.Integrator
	pool       *WorkerPool
	logger     zerolog.Logger
	mu         sync.Mutex // One frame in flight at a time
	frames     int
}

// NewFrameRenderer creates a frame renderer and starts its worker pool
func NewFrameRenderer(integ integrator.Integrator, config RenderConfig, logger zerolog.Logger) *FrameRenderer {
	numWorkers := config.NumWorkers
	if !config.Parallel {
		numWorkers = 1
	}

	pool := NewWorkerPool(integ, numWorkers)
	pool.Start()

	return &FrameRenderer{
		integrator: integ,
		pool:       pool,
		logger:     logger.With().Str("component", "renderer").Logger(),
	}
}

// NumWorkers returns the size of the worker pool
func (fr *FrameRenderer) NumWorkers() int {
	return fr.pool.GetNumWorkers()
}

// RenderFrame renders the scene into a new frame buffer. The scene must not be modified until
// RenderFrame returns. If any worker fails the whole frame fails and no buffer is returned.
func (fr *FrameRenderer) RenderFrame(s *scene.Scene) (*core.FrameBuffer, RenderStats, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	start := time.Now()
	width, height := s.Canvas.Width, s.Canvas.Height
	bands := PartitionBands(height, fr.pool.GetNumWorkers())
	camera := newCameraBasis(s)

	for _, band := range bands {
		fr.pool.SubmitTask(BandTask{Band: band, Scene: s, camera: camera})
	}

	// Frame barrier: wait for every band, even after a failure, so no stale
	// results are left in the queue for the next frame
	results := make([]BandResult, len(bands))
	var firstErr error
	for range bands {
		result, ok := fr.pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Err != nil && firstErr == nil {
			firstErr = result.Err
		}
		results[result.Index] = result
	}
	if firstErr != nil {
		fr.logger.Error().Err(firstErr).Int("frame", fr.frames).Msg("frame failed")
		return nil, RenderStats{}, firstErr
	}

	// Reassemble by band index, never by arrival order
	fb := core.NewFrameBuffer(width, height)
	stats := RenderStats{
		Width:       width,
		Height:      height,
		TotalPixels: width * height,
		Workers:     fr.pool.GetNumWorkers(),
		Bands:       len(bands),
	}
	for i, band := range bands {
		fb.CopyRows(band.Y0, results[i].Rows)
		stats.addBand(band.Rows(), results[i].Elapsed)
	}
	stats.Elapsed = time.Since(start)

	fr.logger.Debug().
		Int("frame", fr.frames).
		Int("width", width).
		Int("height", height).
		Int("workers", stats.Workers).
		Dur("elapsed", stats.Elapsed).
		Float64("imbalance", stats.Imbalance()).
		Msg("frame rendered")
	fr.frames++

	return fb, stats, nil
}

// Close stops the worker pool. The renderer cannot be used afterwards.
func (fr *FrameRenderer) Close() {
	fr.pool.Stop()
}
