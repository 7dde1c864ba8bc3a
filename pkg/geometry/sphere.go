package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Intersect tests the ray against the sphere using the geometric method.
// On a hit it overwrites ray.T with the nearest non-negative root and returns true;
// on a miss ray.T is left untouched.
//
// A sphere whose center projects behind the origin is rejected even when the
// origin lies inside it, which only matters for rays starting inside a sphere.
func (s *Sphere) Intersect(ray *core.Ray) bool {
	// Vector from ray origin to sphere center
	c := s.Center.Subtract(ray.Origin)

	tca := c.Dot(ray.Direction)
	if tca < 0 {
		return false
	}

	// Squared distance from the center to the ray line
	d2 := c.Dot(c) - tca*tca
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return false
	}

	// Float error can make the radicand a tiny negative on tangent rays
	thc := math.Sqrt(math.Max(0, r2-d2))
	t0 := tca - thc
	t1 := tca + thc
	if t0 < 0 {
		t0 = t1
	}
	if t0 < 0 {
		return false
	}

	ray.T = t0
	return true
}

// Normal returns the outward unit normal at a point on the surface
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
