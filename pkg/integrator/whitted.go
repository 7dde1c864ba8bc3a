package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// vacuumIndex is the refractive index of the space between objects
const vacuumIndex = 1.0

// Whitted implements recursive Whitted ray tracing: direct lighting with hard shadows and
// Phong highlights, plus mirror reflection and refraction up to the scene's depth limit.
// It holds no state and is safe for concurrent use.
type Whitted struct{}

// NewWhitted creates a new Whitted integrator
func NewWhitted() *Whitted {
	return &Whitted{}
}

// RayColor traces a primary ray
func (w *Whitted) RayColor(ray core.Ray, s *scene.Scene) core.Color {
	return w.Trace(&ray, s, 0)
}

// Trace returns the color seen along ray at the given recursion depth.
// Rays deeper than the reflections limit, and rays that hit nothing, return the background.
func (w *Whitted) Trace(ray *core.Ray, s *scene.Scene, depth int) core.Color {
	if depth > s.Options.ReflectionsLimit {
		return s.Options.BackgroundColor
	}

	sphere := FindHit(ray, s)
	if sphere == nil {
		return s.Options.BackgroundColor
	}

	return w.shade(ray, sphere, s, depth)
}

// shade computes the color at the ray's hit point on sphere
func (w *Whitted) shade(ray *core.Ray, sphere *geometry.Sphere, s *scene.Scene, depth int) core.Color {
	mat := sphere.Material
	point := ray.HitPoint()
	normal := sphere.Normal(point)

	diffuse, specular := w.directLighting(ray.Direction, point, normal, mat.SpecularExponent, s)

	result := mat.Color.Vec3().Multiply(diffuse * mat.Albedo.Diffuse).
		Add(core.White.Vec3().Multiply(specular * mat.Albedo.Specular))

	// A zero weight contributes nothing, so the recursion can be skipped
	if mat.Reflective() {
		dir := material.Reflect(ray.Direction, normal).Normalize()
		reflected := w.traceSecondary(dir, normal, point, s, depth)
		result = result.Add(reflected.Vec3().Multiply(mat.Albedo.Reflection))
	}
	if mat.Refractive() {
		dir := material.Refract(ray.Direction, normal, mat.RefractiveIndex, vacuumIndex).Normalize()
		refracted := w.traceSecondary(dir, normal, point, s, depth)
		result = result.Add(refracted.Vec3().Multiply(mat.Albedo.Refraction))
	}

	return core.ColorFromVec3(result)
}

// traceSecondary spawns a reflection or refraction ray from just off the surface
func (w *Whitted) traceSecondary(dir, normal, point core.Vec3, s *scene.Scene, depth int) core.Color {
	origin := material.OffsetFromSurface(dir, normal, point)
	secondary := core.NewRay(origin, dir)
	return w.Trace(&secondary, s, depth+1)
}

// directLighting sums the diffuse and specular intensity of every unoccluded light
func (w *Whitted) directLighting(viewDir, point, normal core.Vec3, exponent float64, s *scene.Scene) (diffuse, specular float64) {
	for _, light := range s.Lights {
		lightDir := light.Position.Subtract(point).Normalize()

		shadowOrigin := material.OffsetFromSurface(lightDir, normal, point)
		if occluded(shadowOrigin, lightDir, s.Objects) {
			continue
		}

		diffuse += light.Intensity * math.Max(0, lightDir.Dot(normal))

		// Mirror of the incoming light direction compared against the direction to the eye
		highlight := material.Reflect(lightDir.Negate(), normal).Dot(viewDir.Negate())
		specular += math.Pow(math.Max(0, highlight), exponent) * light.Intensity
	}
	return diffuse, specular
}
