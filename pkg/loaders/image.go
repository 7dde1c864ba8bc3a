package loaders

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// LoadImage loads a PNG, JPEG, GIF, BMP or TIFF image into a frame buffer.
// Used to compare renders against reference images.
func LoadImage(filename string) (*core.FrameBuffer, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	return core.FrameBufferFromImage(img), nil
}
