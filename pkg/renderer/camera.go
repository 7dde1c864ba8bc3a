package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// cameraBasis holds the per-frame constants needed to build primary rays
type cameraBasis struct {
	origin        core.Vec3
	rotation      core.Mat3
	rotated       bool
	halfWidth     float64
	halfHeight    float64
	focalDistance float64
}

func newCameraBasis(s *scene.Scene) cameraBasis {
	return cameraBasis{
		origin:        s.Camera.Position,
		rotation:      s.Camera.Matrix(),
		rotated:       !s.Camera.Rotation.IsZero(),
		halfWidth:     float64(s.Canvas.Width) / 2,
		halfHeight:    float64(s.Canvas.Height) / 2,
		focalDistance: float64(s.Canvas.Height) / (2 * math.Tan(s.Canvas.FOV/2)),
	}
}

// ray returns the primary ray through the center of pixel (x, y), with (0, 0) at the top-left
func (cb cameraBasis) ray(x, y int) core.Ray {
	dir := core.NewVec3(
		(float64(x)+0.5)-cb.halfWidth,
		-(float64(y)+0.5)+cb.halfHeight,
		-cb.focalDistance,
	)
	if cb.rotated {
		dir = cb.rotation.Apply(dir)
	}
	return core.NewRay(cb.origin, dir.Normalize())
}

// PrimaryRay returns the camera ray through the center of pixel (x, y)
func PrimaryRay(x, y int, s *scene.Scene) core.Ray {
	return newCameraBasis(s).ray(x, y)
}
