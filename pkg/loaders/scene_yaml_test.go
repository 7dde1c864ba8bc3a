package loaders

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glassRow = `# Scene: Glass Row
canvas:
  width: 320
  height: 240
  fov: 45
camera:
  position: [0, 1, 2]
  rotation: [0, 10, 0]
options:
  reflections_limit: 2
  background: [10, 20, 30]
  hit_selection: sorted
materials:
  tinted:
    preset: glass
    color: [200, 100, 100]
  chalk:
    color: [240, 240, 240]
    albedo: [0.9, 0.05, 0, 0]
    specular_exponent: 5
spheres:
  - center: [-2, 0, -10]
    radius: 1
    material: tinted
  - center: [2, 0, -10]
    radius: 1.5
    material: chalk
  - center: [0, -101, -10]
    radius: 100
    material: ivory
lights:
  - position: [0, 10, 0]
    intensity: 1.2
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(glassRow))
	require.NoError(t, err)

	assert.Equal(t, 320, s.Canvas.Width)
	assert.Equal(t, 240, s.Canvas.Height)
	assert.InDelta(t, math.Pi/4, s.Canvas.FOV, 1e-12)
	assert.Equal(t, core.NewVec3(0, 1, 2), s.Camera.Position)
	assert.Equal(t, core.NewVec3(0, 10, 0), s.Camera.Rotation)
	assert.Equal(t, 2, s.Options.ReflectionsLimit)
	assert.Equal(t, core.NewColor(10, 20, 30), s.Options.BackgroundColor)
	assert.Equal(t, scene.SortedFirstHit, s.Options.HitSelection)

	require.Len(t, s.Objects, 3)
	require.Len(t, s.Lights, 1)

	// preset with a color override keeps the preset's optics
	tinted := s.Objects[0].Material
	assert.Equal(t, core.NewColor(200, 100, 100), tinted.Color)
	assert.Equal(t, material.NewGlass().Albedo, tinted.Albedo)
	assert.Equal(t, 1.5, tinted.RefractiveIndex)

	chalk := s.Objects[1].Material
	assert.Equal(t, material.Albedo{Diffuse: 0.9, Specular: 0.05}, chalk.Albedo)
	assert.Equal(t, 5.0, chalk.SpecularExponent)
	assert.Equal(t, 1.0, chalk.RefractiveIndex)

	// preset names work without a materials entry
	assert.Equal(t, material.NewIvory(), s.Objects[2].Material)
	assert.Equal(t, 100.0, s.Objects[2].Radius)

	assert.Equal(t, scene.Light{Position: core.NewVec3(0, 10, 0), Intensity: 1.2}, s.Lights[0])
}

func TestParseScene_Defaults(t *testing.T) {
	s, err := ParseScene([]byte(`
spheres:
  - center: [0, 0, -5]
    radius: 1
    material: mirror
`))
	require.NoError(t, err)

	assert.Equal(t, scene.DefaultWidth, s.Canvas.Width)
	assert.Equal(t, scene.DefaultHeight, s.Canvas.Height)
	assert.Equal(t, scene.DefaultFOV, s.Canvas.FOV)
	assert.Equal(t, scene.DefaultReflectionsLimit, s.Options.ReflectionsLimit)
	assert.Equal(t, scene.DefaultBackground, s.Options.BackgroundColor)
	assert.Equal(t, scene.NearestHit, s.Options.HitSelection)
	assert.Empty(t, s.Lights)
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown sphere material",
			doc:     "spheres:\n  - {center: [0, 0, -5], radius: 1, material: plutonium}\n",
			wantErr: ErrUnknownMaterial,
		},
		{
			name:    "unknown preset",
			doc:     "materials:\n  odd: {preset: plutonium}\n",
			wantErr: ErrUnknownMaterial,
		},
		{
			name:    "negative radius",
			doc:     "spheres:\n  - {center: [0, 0, -5], radius: -1, material: ivory}\n",
			wantErr: scene.ErrInvalidScene,
		},
		{
			name:    "fov too wide",
			doc:     "canvas: {fov: 180}\n",
			wantErr: scene.ErrInvalidScene,
		},
		{
			name:    "negative light",
			doc:     "lights:\n  - {position: [0, 0, 0], intensity: -2}\n",
			wantErr: scene.ErrInvalidScene,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestParseScene_MalformedDocuments(t *testing.T) {
	docs := map[string]string{
		"not yaml":           "canvas: [",
		"bad hit selection":  "options: {hit_selection: closest}\n",
		"short vector":       "camera: {position: [1, 2]}\n",
		"inline missing all": "materials:\n  bare: {specular_exponent: 3}\n",
		"color out of range": "options: {background: [300, 0, 0]}\n",
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScene([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadScene_RoundTrip(t *testing.T) {
	original := scene.NewClassicScene()
	original.Camera.MoveBy(core.NewVec3(1, -1, -1))
	original.Camera.RotateBy(core.NewVec3(5, 0, 0))

	path := filepath.Join(t.TempDir(), "classic.yaml")
	require.NoError(t, SaveScene(path, original))

	loaded, err := LoadScene(path)
	require.NoError(t, err)

	assert.InDelta(t, original.Canvas.FOV, loaded.Canvas.FOV, 1e-12)
	loaded.Canvas.FOV = original.Canvas.FOV
	assert.Equal(t, original.Canvas, loaded.Canvas)
	assert.Equal(t, original.Camera, loaded.Camera)
	assert.Equal(t, original.Options, loaded.Options)
	assert.Equal(t, original.Lights, loaded.Lights)

	require.Len(t, loaded.Objects, len(original.Objects))
	for i := range original.Objects {
		assert.Equal(t, *original.Objects[i], *loaded.Objects[i], "sphere %d", i)
	}
}

func TestMarshalScene_UsesPresetNames(t *testing.T) {
	data, err := MarshalScene(scene.NewDefaultScene())
	require.NoError(t, err)

	assert.Contains(t, string(data), "preset: glass")
	assert.Contains(t, string(data), "material: mirror")
	assert.NotContains(t, string(data), "material-")
}

func TestLoadScene_MissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadScene_BundledScenes(t *testing.T) {
	files, err := scene.ListSceneFiles(filepath.Join("..", "..", "scenes"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, info := range files {
		t.Run(info.ID, func(t *testing.T) {
			s, err := LoadScene(info.FilePath)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Objects)
			assert.NotEmpty(t, s.Lights)
			assert.NotEmpty(t, info.Description)
		})
	}
}
