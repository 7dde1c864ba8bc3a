package output

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FormatFromName returns the image format implied by a file name's extension
func FormatFromName(name string) (imaging.Format, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return 0, fmt.Errorf("unsupported output format %q: %w", filepath.Ext(name), err)
	}
	return format, nil
}

// ParseFormat converts a format name such as "png" or "jpeg" into an image format
func ParseFormat(name string) (imaging.Format, error) {
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(name, "."))
	if err != nil {
		return 0, fmt.Errorf("unsupported output format %q: %w", name, err)
	}
	return format, nil
}

// Encode writes the frame buffer to w in the given format
func Encode(w io.Writer, fb *core.FrameBuffer, format imaging.Format) error {
	if err := imaging.Encode(w, fb.ToRGBA(), format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// EncodePNG returns the frame buffer as PNG bytes
func EncodePNG(fb *core.FrameBuffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, fb, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveImage writes the frame buffer to filename, choosing the format from the extension
func SaveImage(filename string, fb *core.FrameBuffer) error {
	if _, err := FormatFromName(filename); err != nil {
		return err
	}
	if err := imaging.Save(fb.ToRGBA(), filename); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Thumbnail scales the frame down to width pixels, preserving the aspect ratio.
// Frames already narrower than width are returned unscaled.
func Thumbnail(fb *core.FrameBuffer, width int) image.Image {
	img := fb.ToRGBA()
	if width <= 0 || width >= fb.Width {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Bilinear)
}

// ThumbnailPNG returns a PNG encoded thumbnail of the frame
func ThumbnailPNG(fb *core.FrameBuffer, width int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Thumbnail(fb, width), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveThumbnail writes a thumbnail of the frame to filename, choosing the format from the extension
func SaveThumbnail(filename string, fb *core.FrameBuffer, width int) error {
	if _, err := FormatFromName(filename); err != nil {
		return err
	}
	if err := imaging.Save(Thumbnail(fb, width), filename); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
