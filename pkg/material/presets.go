package material

import (
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewIvory creates a mostly diffuse off-white material with a soft highlight
func NewIvory() Material {
	return NewMaterial(core.NewColor(102, 102, 76), Albedo{0.6, 0.3, 0.1, 0.0}, 50, 1.0)
}

// NewGlass creates a transparent material that mostly refracts
func NewGlass() Material {
	return NewMaterial(core.NewColor(153, 178, 204), Albedo{0.0, 0.5, 0.1, 0.8}, 125, 1.5)
}

// NewRedRubber creates a dull red diffuse material
func NewRedRubber() Material {
	return NewMaterial(core.NewColor(75, 25, 24), Albedo{0.9, 0.1, 0.0, 0.0}, 10, 1.0)
}

// NewMirror creates a highly reflective material with a sharp highlight
func NewMirror() Material {
	return NewMaterial(core.NewColor(255, 255, 255), Albedo{0.0, 10.0, 0.8, 0.0}, 1425, 1.0)
}

// NewDarkGreenPlastic creates a glossy dark green material
func NewDarkGreenPlastic() Material {
	return NewMaterial(core.NewColor(12, 55, 44), Albedo{0.6, 0.3, 0.1, 0.0}, 50, 1.0)
}

// NewMatte creates a purely diffuse material of the given color
func NewMatte(color core.Color) Material {
	return NewMaterial(color, Albedo{Diffuse: 1}, 1, 1.0)
}

var presets = map[string]func() Material{
	"ivory":              NewIvory,
	"glass":              NewGlass,
	"red-rubber":         NewRedRubber,
	"mirror":             NewMirror,
	"dark-green-plastic": NewDarkGreenPlastic,
}

// Preset returns a named material preset
func Preset(name string) (Material, error) {
	factory, ok := presets[name]
	if !ok {
		return Material{}, fmt.Errorf("unknown material preset %q", name)
	}
	return factory(), nil
}

// PresetNames lists the available preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
