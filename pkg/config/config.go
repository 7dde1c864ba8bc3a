package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

type OutputCfg struct {
	Dir            string `yaml:"dir"`
	Format         string `yaml:"format"`          // png | jpg | bmp | gif | tiff
	ThumbnailWidth int    `yaml:"thumbnail_width"` // 0 = no thumbnail
}

type SequenceCfg struct {
	Frames       int        `yaml:"frames"`
	CameraStep   [3]float64 `yaml:"camera_step,flow"`
	RotationStep [3]float64 `yaml:"rotation_step,flow"` // degrees per frame
	LightStep    float64    `yaml:"light_step"`
}

type ServerCfg struct {
	Addr           string `yaml:"addr"`
	LiveWidth      int    `yaml:"live_width"`
	LiveHeight     int    `yaml:"live_height"`
	ThumbnailWidth int    `yaml:"thumbnail_width"`
	MaxWidth       int    `yaml:"max_width"`
	MaxHeight      int    `yaml:"max_height"`
}

type Config struct {
	Scene     string `yaml:"scene"`      // built-in scene name
	SceneFile string `yaml:"scene_file"` // YAML scene description, wins over Scene
	ScenesDir string `yaml:"scenes_dir"`

	// Zero values keep the scene's own settings
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	FOV              float64 `yaml:"fov"` // degrees
	ReflectionsLimit *int    `yaml:"reflections_limit,omitempty"`
	HitSelection     string  `yaml:"hit_selection"`

	Workers  int  `yaml:"workers"` // 0 = CPU count
	Parallel bool `yaml:"parallel"`

	Reference string `yaml:"reference"` // image to compare the first frame against
	Publish   bool   `yaml:"publish"`
	LogLevel  string `yaml:"log_level"`

	Output   OutputCfg       `yaml:"output"`
	Sequence SequenceCfg     `yaml:"sequence"`
	Server   ServerCfg       `yaml:"server"`
	S3       output.S3Config `yaml:"s3"`
}

func Default() *Config {
	return &Config{
		Scene:     "default",
		ScenesDir: "scenes",
		Parallel:  true,
		LogLevel:  "info",
		Output: OutputCfg{
			Dir:    "output",
			Format: "png",
		},
		Sequence: SequenceCfg{Frames: 1},
		Server: ServerCfg{
			Addr:           ":8080",
			LiveWidth:      320,
			LiveHeight:     240,
			ThumbnailWidth: 320,
			MaxWidth:       4096,
			MaxHeight:      4096,
		},
	}
}

// Load reads a YAML config on top of the defaults
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv loads envFile if it exists and overlays RAYTRACER_* and S3_* variables.
// Variables already set in the process environment win over the file.
func ApplyEnv(c *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	strs := map[string]*string{
		"RAYTRACER_SCENE":      &c.Scene,
		"RAYTRACER_SCENE_FILE": &c.SceneFile,
		"RAYTRACER_SCENES_DIR": &c.ScenesDir,
		"RAYTRACER_OUTPUT_DIR": &c.Output.Dir,
		"RAYTRACER_FORMAT":     &c.Output.Format,
		"RAYTRACER_ADDR":       &c.Server.Addr,
		"RAYTRACER_LOG_LEVEL":  &c.LogLevel,
		"S3_ACCESS_KEY":        &c.S3.AccessKey,
		"S3_SECRET_KEY":        &c.S3.SecretKey,
		"S3_ENDPOINT":          &c.S3.Endpoint,
		"S3_REGION":            &c.S3.Region,
		"S3_BUCKET":            &c.S3.Bucket,
		"S3_PREFIX":            &c.S3.Prefix,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"RAYTRACER_WIDTH":   &c.Width,
		"RAYTRACER_HEIGHT":  &c.Height,
		"RAYTRACER_WORKERS": &c.Workers,
		"RAYTRACER_FRAMES":  &c.Sequence.Frames,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("RAYTRACER_PARALLEL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RAYTRACER_PARALLEL: %w", err)
		}
		c.Parallel = b
	}

	return nil
}

// BuildScene loads the configured scene file or built-in scene and applies the overrides
func (c *Config) BuildScene() (*scene.Scene, error) {
	var s *scene.Scene
	var err error
	if c.SceneFile != "" {
		s, err = loaders.LoadScene(c.SceneFile)
	} else {
		s, err = scene.ByName(c.Scene)
	}
	if err != nil {
		return nil, err
	}
	if err := c.ApplyOverrides(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyOverrides writes the non-zero scene settings of the config into s
func (c *Config) ApplyOverrides(s *scene.Scene) error {
	if c.Width > 0 {
		s.Canvas.Width = c.Width
	}
	if c.Height > 0 {
		s.Canvas.Height = c.Height
	}
	if c.FOV > 0 {
		s.Canvas.FOV = c.FOV * math.Pi / 180
	}
	if c.ReflectionsLimit != nil {
		s.Options.ReflectionsLimit = *c.ReflectionsLimit
	}
	if c.HitSelection != "" {
		h, err := scene.ParseHitSelection(c.HitSelection)
		if err != nil {
			return err
		}
		s.Options.HitSelection = h
	}
	return s.Validate()
}

func (c *Config) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		NumWorkers: c.Workers,
		Parallel:   c.Parallel,
	}
}

func (c *Config) SequenceConfig() renderer.SequenceConfig {
	frames := c.Sequence.Frames
	if frames < 1 {
		frames = 1
	}
	return renderer.SequenceConfig{
		Frames:       frames,
		CameraStep:   core.NewVec3(c.Sequence.CameraStep[0], c.Sequence.CameraStep[1], c.Sequence.CameraStep[2]),
		RotationStep: core.NewVec3(c.Sequence.RotationStep[0], c.Sequence.RotationStep[1], c.Sequence.RotationStep[2]),
		LightStep:    c.Sequence.LightStep,
	}
}
