package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera is a pinhole camera looking down -z.
// Rotation holds angles in degrees about the x, y and z axes; zero means no rotation.
type Camera struct {
	Position core.Vec3
	Rotation core.Vec3
}

// MoveBy translates the camera
func (c *Camera) MoveBy(delta core.Vec3) {
	c.Position = c.Position.Add(delta)
}

// RotateBy adds to the camera rotation angles
func (c *Camera) RotateBy(degrees core.Vec3) {
	c.Rotation = c.Rotation.Add(degrees)
}

// Matrix returns the rotation applied to camera-space ray directions
func (c Camera) Matrix() core.Mat3 {
	return core.RotationMatrix(c.Rotation)
}
