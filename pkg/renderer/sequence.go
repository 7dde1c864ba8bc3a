package renderer

import (
	"context"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// SequenceConfig describes a camera move repeated between frames
type SequenceConfig struct {
	Frames       int       // Number of frames to render
	CameraStep   core.Vec3 // Camera translation applied after each frame
	RotationStep core.Vec3 // Camera rotation in degrees applied after each frame
	LightStep    float64   // Light intensity change applied after each frame
}

// FrameResult contains one frame of a sequence
type FrameResult struct {
	Index  int
	Frame  *core.FrameBuffer
	Stats  RenderStats
	Camera scene.Camera // Camera the frame was rendered from
	IsLast bool
}

// RenderSequence renders config.Frames frames of a copy of s, moving the camera between frames.
// Returns channels for events; the caller should drain the frame channel until it closes and
// then read the error channel. Cancellation is only checked between frames.
func (fr *FrameRenderer) RenderSequence(ctx context.Context, s *scene.Scene, config SequenceConfig) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	working := s.Clone()

	go func() {
		defer close(frameChan)
		defer close(errChan)

		fr.logger.Info().Int("frames", config.Frames).Int("workers", fr.NumWorkers()).Msg("starting sequence")

		for i := 0; i < config.Frames; i++ {
			select {
			case <-ctx.Done():
				fr.logger.Info().Int("frame", i).Msg("sequence cancelled")
				errChan <- ctx.Err()
				return
			default:
			}

			fb, stats, err := fr.RenderFrame(working)
			if err != nil {
				errChan <- err
				return
			}

			fr.logger.Info().
				Int("frame", i).
				Dur("elapsed", stats.Elapsed).
				Float64("mpix_per_sec", stats.PixelsPerSecond()/1e6).
				Msg("sequence frame completed")

			result := FrameResult{
				Index:  i,
				Frame:  fb,
				Stats:  stats,
				Camera: working.Camera,
				IsLast: i == config.Frames-1,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			// The next frame starts only after this one is fully assembled
			working.Camera.MoveBy(config.CameraStep)
			working.Camera.RotateBy(config.RotationStep)
			if config.LightStep != 0 {
				working.AdjustLightIntensity(config.LightStep)
			}
		}
	}()

	return frameChan, errChan
}
