package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Albedo holds the blend weights of the four shading contributions.
// The weights are independent and need not sum to 1.
type Albedo struct {
	Diffuse    float64 // kd
	Specular   float64 // ks
	Reflection float64 // kr
	Refraction float64 // kt
}

// Material describes the Phong-like surface response of a sphere
type Material struct {
	Color            core.Color
	Albedo           Albedo
	SpecularExponent float64
	RefractiveIndex  float64
}

// NewMaterial creates a new material
func NewMaterial(color core.Color, albedo Albedo, specularExponent, refractiveIndex float64) Material {
	return Material{
		Color:            color,
		Albedo:           albedo,
		SpecularExponent: specularExponent,
		RefractiveIndex:  refractiveIndex,
	}
}

// Reflective returns true if the material has a reflection contribution
func (m Material) Reflective() bool {
	return m.Albedo.Reflection != 0
}

// Refractive returns true if the material has a refraction contribution
func (m Material) Refractive() bool {
	return m.Albedo.Refraction != 0
}
