package loaders

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMaterial is returned when a sphere references a material that is neither
// defined in the file nor a built-in preset
var ErrUnknownMaterial = errors.New("unknown material")

// SceneDocument is the YAML representation of a scene
type SceneDocument struct {
	Canvas    CanvasDocument              `yaml:"canvas"`
	Camera    CameraDocument              `yaml:"camera"`
	Options   OptionsDocument             `yaml:"options"`
	Materials map[string]MaterialDocument `yaml:"materials,omitempty"`
	Spheres   []SphereDocument            `yaml:"spheres"`
	Lights    []LightDocument             `yaml:"lights"`
}

// CanvasDocument describes the output resolution. FOV is in degrees.
type CanvasDocument struct {
	Width  int     `yaml:"width,omitempty"`
	Height int     `yaml:"height,omitempty"`
	FOV    float64 `yaml:"fov,omitempty"`
}

// CameraDocument describes the camera position and rotation in degrees
type CameraDocument struct {
	Position [3]float64 `yaml:"position,flow"`
	Rotation [3]float64 `yaml:"rotation,flow"`
}

// OptionsDocument describes render options
type OptionsDocument struct {
	ReflectionsLimit *int      `yaml:"reflections_limit,omitempty"`
	Background       *[3]uint8 `yaml:"background,omitempty,flow"`
	HitSelection     string    `yaml:"hit_selection,omitempty"`
}

// MaterialDocument is either a preset, a full inline material, or a preset with overrides
type MaterialDocument struct {
	Preset           string      `yaml:"preset,omitempty"`
	Color            *[3]uint8   `yaml:"color,omitempty,flow"`
	Albedo           *[4]float64 `yaml:"albedo,omitempty,flow"`
	SpecularExponent *float64    `yaml:"specular_exponent,omitempty"`
	RefractiveIndex  *float64    `yaml:"refractive_index,omitempty"`
}

// SphereDocument describes one sphere
type SphereDocument struct {
	Center   [3]float64 `yaml:"center,flow"`
	Radius   float64    `yaml:"radius"`
	Material string     `yaml:"material"`
}

// LightDocument describes one point light
type LightDocument struct {
	Position  [3]float64 `yaml:"position,flow"`
	Intensity float64    `yaml:"intensity"`
}

// LoadScene reads and validates a YAML scene file
func LoadScene(filename string) (*scene.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseScene builds and validates a scene from a YAML document
func ParseScene(data []byte) (*scene.Scene, error) {
	var doc SceneDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	s, err := doc.Build()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Build converts the document into a scene, filling defaults for omitted fields
func (doc *SceneDocument) Build() (*scene.Scene, error) {
	s := &scene.Scene{
		Canvas: scene.Canvas{
			Width:  orDefault(doc.Canvas.Width, scene.DefaultWidth),
			Height: orDefault(doc.Canvas.Height, scene.DefaultHeight),
			FOV:    scene.DefaultFOV,
		},
		Camera: scene.Camera{
			Position: vec3(doc.Camera.Position),
			Rotation: vec3(doc.Camera.Rotation),
		},
		Options: scene.Options{
			ReflectionsLimit: scene.DefaultReflectionsLimit,
			BackgroundColor:  scene.DefaultBackground,
		},
	}

	if doc.Canvas.FOV != 0 {
		s.Canvas.FOV = doc.Canvas.FOV * math.Pi / 180
	}
	if doc.Options.ReflectionsLimit != nil {
		s.Options.ReflectionsLimit = *doc.Options.ReflectionsLimit
	}
	if doc.Options.Background != nil {
		s.Options.BackgroundColor = rgb(*doc.Options.Background)
	}

	selection, err := scene.ParseHitSelection(doc.Options.HitSelection)
	if err != nil {
		return nil, err
	}
	s.Options.HitSelection = selection

	materials := make(map[string]material.Material, len(doc.Materials))
	for name, md := range doc.Materials {
		m, err := md.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	for i, sd := range doc.Spheres {
		m, ok := materials[sd.Material]
		if !ok {
			preset, err := material.Preset(sd.Material)
			if err != nil {
				return nil, fmt.Errorf("sphere %d: %w %q", i, ErrUnknownMaterial, sd.Material)
			}
			m = preset
		}
		s.AddSphere(geometry.NewSphere(vec3(sd.Center), sd.Radius, m))
	}

	for _, ld := range doc.Lights {
		s.AddLight(vec3(ld.Position), ld.Intensity)
	}

	return s, nil
}

// Build resolves the material, applying inline values on top of the preset if one is named
func (md MaterialDocument) Build() (material.Material, error) {
	var m material.Material
	if md.Preset != "" {
		preset, err := material.Preset(md.Preset)
		if err != nil {
			return m, fmt.Errorf("%w: %v", ErrUnknownMaterial, err)
		}
		m = preset
	} else {
		if md.Color == nil || md.Albedo == nil {
			return m, fmt.Errorf("inline material needs color and albedo")
		}
		m = material.NewMaterial(core.White, material.Albedo{}, 1, 1)
	}

	if md.Color != nil {
		m.Color = rgb(*md.Color)
	}
	if md.Albedo != nil {
		a := *md.Albedo
		m.Albedo = material.Albedo{Diffuse: a[0], Specular: a[1], Reflection: a[2], Refraction: a[3]}
	}
	if md.SpecularExponent != nil {
		m.SpecularExponent = *md.SpecularExponent
	}
	if md.RefractiveIndex != nil {
		m.RefractiveIndex = *md.RefractiveIndex
	}
	return m, nil
}

// SaveScene writes the scene as a YAML document
func SaveScene(filename string, s *scene.Scene) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// MarshalScene encodes the scene as YAML. Materials equal to a preset are written by preset
// name; the others are written inline under generated names.
func MarshalScene(s *scene.Scene) ([]byte, error) {
	limit := s.Options.ReflectionsLimit
	background := [3]uint8{s.Options.BackgroundColor.R, s.Options.BackgroundColor.G, s.Options.BackgroundColor.B}

	doc := SceneDocument{
		Canvas: CanvasDocument{
			Width:  s.Canvas.Width,
			Height: s.Canvas.Height,
			FOV:    s.Canvas.FOV * 180 / math.Pi,
		},
		Camera: CameraDocument{
			Position: array(s.Camera.Position),
			Rotation: array(s.Camera.Rotation),
		},
		Options: OptionsDocument{
			ReflectionsLimit: &limit,
			Background:       &background,
			HitSelection:     s.Options.HitSelection.String(),
		},
		Materials: make(map[string]MaterialDocument),
	}

	names := make(map[material.Material]string)
	for _, obj := range s.Objects {
		name, ok := names[obj.Material]
		if !ok {
			if preset, found := presetName(obj.Material); found {
				name = preset
				doc.Materials[name] = MaterialDocument{Preset: preset}
			} else {
				name = fmt.Sprintf("material-%d", len(doc.Materials))
				doc.Materials[name] = inlineMaterial(obj.Material)
			}
			names[obj.Material] = name
		}
		doc.Spheres = append(doc.Spheres, SphereDocument{
			Center:   array(obj.Center),
			Radius:   obj.Radius,
			Material: name,
		})
	}

	for _, light := range s.Lights {
		doc.Lights = append(doc.Lights, LightDocument{
			Position:  array(light.Position),
			Intensity: light.Intensity,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene: %w", err)
	}
	return data, nil
}

// presetName returns the name of the preset equal to m, if any
func presetName(m material.Material) (string, bool) {
	for _, name := range material.PresetNames() {
		if preset, _ := material.Preset(name); preset == m {
			return name, true
		}
	}
	return "", false
}

func inlineMaterial(m material.Material) MaterialDocument {
	color := [3]uint8{m.Color.R, m.Color.G, m.Color.B}
	albedo := [4]float64{m.Albedo.Diffuse, m.Albedo.Specular, m.Albedo.Reflection, m.Albedo.Refraction}
	exponent := m.SpecularExponent
	index := m.RefractiveIndex
	return MaterialDocument{
		Color:            &color,
		Albedo:           &albedo,
		SpecularExponent: &exponent,
		RefractiveIndex:  &index,
	}
}

func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func vec3(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func rgb(a [3]uint8) core.Color {
	return core.NewColor(a[0], a[1], a[2])
}
