package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along a primary ray.
	// Implementations must be safe for concurrent use with a shared read-only scene.
	RayColor(ray core.Ray, scene *scene.Scene) core.Color
}
