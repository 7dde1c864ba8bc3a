package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrInvalidScene is returned by Validate when a scene breaks a rendering precondition
var ErrInvalidScene = errors.New("invalid scene")

// HitSelection controls how the tracer picks the visible object along a ray
type HitSelection int

const (
	// NearestHit tests every object and keeps the smallest valid t
	NearestHit HitSelection = iota
	// SortedFirstHit orders objects by distance from the ray origin and takes the first hit
	SortedFirstHit
)

// String returns the config name of the hit selection mode
func (h HitSelection) String() string {
	switch h {
	case NearestHit:
		return "nearest"
	case SortedFirstHit:
		return "sorted"
	default:
		return fmt.Sprintf("HitSelection(%d)", int(h))
	}
}

// ParseHitSelection converts a config name into a HitSelection
func ParseHitSelection(name string) (HitSelection, error) {
	switch name {
	case "", "nearest":
		return NearestHit, nil
	case "sorted":
		return SortedFirstHit, nil
	default:
		return NearestHit, fmt.Errorf("unknown hit selection %q (want nearest or sorted)", name)
	}
}

// Light is a point light
type Light struct {
	Position  core.Vec3
	Intensity float64
}

// Canvas is the output resolution and vertical field of view in radians
type Canvas struct {
	Width  int
	Height int
	FOV    float64
}

// Options contains the render options of a scene
type Options struct {
	ReflectionsLimit int        // Maximum recursion depth for reflection and refraction
	BackgroundColor  core.Color // Color returned by rays that escape the scene
	HitSelection     HitSelection
}

// Scene contains all the elements needed for rendering.
// A scene is read-only while a frame is being rendered.
type Scene struct {
	Objects []*geometry.Sphere
	Lights  []Light
	Camera  Camera
	Canvas  Canvas
	Options Options
}

// Validate checks the preconditions the tracer relies on
func (s *Scene) Validate() error {
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalidScene, s.Canvas.Width, s.Canvas.Height)
	}
	if s.Canvas.FOV <= 0 || s.Canvas.FOV >= math.Pi {
		return fmt.Errorf("%w: fov must be in (0, pi), got %g", ErrInvalidScene, s.Canvas.FOV)
	}
	if s.Options.ReflectionsLimit < 0 {
		return fmt.Errorf("%w: reflections limit must be >= 0, got %d", ErrInvalidScene, s.Options.ReflectionsLimit)
	}
	for i, obj := range s.Objects {
		if obj == nil {
			return fmt.Errorf("%w: object %d is nil", ErrInvalidScene, i)
		}
		if obj.Radius <= 0 {
			return fmt.Errorf("%w: object %d has non-positive radius %g", ErrInvalidScene, i, obj.Radius)
		}
	}
	for i, light := range s.Lights {
		if light.Intensity < 0 {
			return fmt.Errorf("%w: light %d has negative intensity %g", ErrInvalidScene, i, light.Intensity)
		}
	}
	return nil
}

// Clone returns a copy that can be mutated between frames without affecting the original.
// Spheres are shared since they are immutable after construction.
func (s *Scene) Clone() *Scene {
	clone := *s
	clone.Objects = append([]*geometry.Sphere(nil), s.Objects...)
	clone.Lights = append([]Light(nil), s.Lights...)
	return &clone
}

// AdjustLightIntensity adds delta to every light, clamping intensities at 0
func (s *Scene) AdjustLightIntensity(delta float64) {
	for i := range s.Lights {
		s.Lights[i].Intensity = math.Max(0, s.Lights[i].Intensity+delta)
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(sphere *geometry.Sphere) {
	s.Objects = append(s.Objects, sphere)
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(position core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, Light{Position: position, Intensity: intensity})
}

// AspectRatio returns width / height of the canvas
func (c Canvas) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}
