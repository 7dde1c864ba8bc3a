package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const (
	DefaultWidth            = 1024
	DefaultHeight           = 768
	DefaultFOV              = math.Pi / 3
	DefaultReflectionsLimit = 4
)

// DefaultBackground is the sky color used by the built-in scenes
var DefaultBackground = core.NewColor(50, 178, 203)

// NewDefaultScene creates four spheres of different materials under three point lights
func NewDefaultScene() *Scene {
	s := &Scene{
		Camera: Camera{Position: core.NewVec3(0, 0, 0)},
		Canvas: Canvas{Width: DefaultWidth, Height: DefaultHeight, FOV: DefaultFOV},
		Options: Options{
			ReflectionsLimit: DefaultReflectionsLimit,
			BackgroundColor:  DefaultBackground,
			HitSelection:     NearestHit,
		},
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(-3, 0, -16), 2, material.NewIvory()))
	s.AddSphere(geometry.NewSphere(core.NewVec3(-1, -1.5, -12), 2, material.NewGlass()))
	s.AddSphere(geometry.NewSphere(core.NewVec3(1.5, -0.5, -18), 3, material.NewRedRubber()))
	s.AddSphere(geometry.NewSphere(core.NewVec3(7, 5, -18), 4, material.NewMirror()))

	s.AddLight(core.NewVec3(-20, 20, 20), 1.5)
	s.AddLight(core.NewVec3(30, 50, -25), 1.8)
	s.AddLight(core.NewVec3(30, 20, 30), 1.7)

	return s
}

// NewClassicScene creates the two-sphere scene lit by a single distant light
func NewClassicScene() *Scene {
	s := &Scene{
		Camera: Camera{Position: core.NewVec3(0, 0, 0)},
		Canvas: Canvas{Width: DefaultWidth, Height: DefaultHeight, FOV: DefaultFOV},
		Options: Options{
			ReflectionsLimit: DefaultReflectionsLimit,
			BackgroundColor:  core.NewColor(185, 185, 185),
			HitSelection:     SortedFirstHit,
		},
	}

	metallicRed := material.NewMaterial(core.NewColor(170, 84, 84), material.Albedo{Diffuse: 0.6, Specular: 0.3, Reflection: 0.1}, 50, 1.0)

	s.AddSphere(geometry.NewSphere(core.NewVec3(-3, 0, -16), 2, material.NewDarkGreenPlastic()))
	s.AddSphere(geometry.NewSphere(core.NewVec3(4, 4, -12), 3, metallicRed))

	s.AddLight(core.NewVec3(500, 500, 150), 20)

	return s
}

// NewSingleSphereScene creates one matte white sphere straight ahead of the camera with a
// light at the eye. A narrow field of view keeps the sphere well inside the frame.
func NewSingleSphereScene(width, height int) *Scene {
	s := &Scene{
		Camera: Camera{Position: core.NewVec3(0, 0, 0)},
		Canvas: Canvas{Width: width, Height: height, FOV: math.Pi / 6},
		Options: Options{
			ReflectionsLimit: DefaultReflectionsLimit,
			BackgroundColor:  DefaultBackground,
			HitSelection:     NearestHit,
		},
	}

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, material.NewMatte(core.White)))
	s.AddLight(core.NewVec3(0, 0, 0), 1)

	return s
}
