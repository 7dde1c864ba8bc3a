package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func noEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Precedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("scene: classic\nwidth: 100\nheight: 50\nworkers: 2\n"), 0644))
	t.Setenv("RAYTRACER_HEIGHT", "60")

	var usage bytes.Buffer
	cfg, opts, err := loadConfig([]string{
		"-config", configPath,
		"-env", noEnv(t),
		"-workers", "5",
		"-move", "0, 0, -1",
		"-limit", "2",
		"-save-scene", "out.yaml",
	}, &usage)
	require.NoError(t, err)

	assert.Equal(t, "classic", cfg.Scene, "from the config file")
	assert.Equal(t, 100, cfg.Width, "from the config file")
	assert.Equal(t, 60, cfg.Height, "environment wins over the file")
	assert.Equal(t, 5, cfg.Workers, "flags win over both")
	assert.Equal(t, [3]float64{0, 0, -1}, cfg.Sequence.CameraStep)
	require.NotNil(t, cfg.ReflectionsLimit)
	assert.Equal(t, 2, *cfg.ReflectionsLimit)
	assert.True(t, cfg.Parallel, "unset flags keep the config value")
	assert.Equal(t, "out.yaml", opts.saveScene)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad triple", []string{"-move", "1,2"}},
		{"bad triple component", []string{"-rotate", "1,x,2"}},
		{"bad move before valid rotate", []string{"-move", "bogus", "-rotate", "0,10,0"}},
		{"valid move before bad rotate", []string{"-move", "0,0,1", "-rotate", "bogus"}},
		{"missing config", []string{"-config", "/nonexistent/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadConfig(append(tt.args, "-env", noEnv(t)), &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Help(t *testing.T) {
	var usage bytes.Buffer
	_, _, err := loadConfig([]string{"-h"}, &usage)
	assert.True(t, errors.Is(err, flag.ErrHelp))
	assert.Contains(t, usage.String(), "single-sphere")
}

func TestParseTriple(t *testing.T) {
	v, err := parseTriple("1.5,-2, 3e1")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1.5, -2, 30}, v)
}

func TestSceneLabel(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "default", sceneLabel(cfg))
	cfg.SceneFile = "scenes/two-spheres.yaml"
	assert.Equal(t, "two-spheres", sceneLabel(cfg))
}

func TestListScenes(t *testing.T) {
	var out bytes.Buffer
	listScenes(&out, t.TempDir())
	assert.Contains(t, out.String(), scene.BuiltinGroup)
	assert.Contains(t, out.String(), "classic")
}

func smallConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Scene = "single-sphere"
	cfg.Width = 24
	cfg.Height = 16
	cfg.Workers = 3
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestRun_Sequence(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Sequence.Frames = 3
	cfg.Sequence.CameraStep = [3]float64{0, 0, 1}
	cfg.Output.ThumbnailWidth = 12
	scenePath := filepath.Join(t.TempDir(), "resolved.yaml")

	frames, err := run(context.Background(), cfg, cliOptions{saveScene: scenePath}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, frames, 3)

	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, filepath.Join(cfg.Output.Dir, "single-sphere"), filepath.Dir(f.Path))

		fb, err := loaders.LoadImage(f.Path)
		require.NoError(t, err)
		assert.Equal(t, 24, fb.Width)
		assert.Equal(t, 16, fb.Height)

		thumb, err := loaders.LoadImage(f.Thumbnail)
		require.NoError(t, err)
		assert.Equal(t, 12, thumb.Width)
	}

	// The camera moves away from the sphere, so later frames show less of it
	first, err := loaders.LoadImage(frames[0].Path)
	require.NoError(t, err)
	last, err := loaders.LoadImage(frames[2].Path)
	require.NoError(t, err)
	assert.False(t, first.Equal(last))

	saved, err := loaders.LoadScene(scenePath)
	require.NoError(t, err)
	assert.Equal(t, 24, saved.Canvas.Width)
}

func TestRun_Reference(t *testing.T) {
	cfg := smallConfig(t)
	frames, err := run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, frames, 1)

	// rendering is deterministic, so the first render is a valid reference
	cfg.Reference = frames[0].Path
	_, err = run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
	require.NoError(t, err)

	// a reference of the wrong size is rejected before rendering
	cfg.Width = 30
	_, err = run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
	assert.Error(t, err)
}

type fakePublisher struct {
	names []string
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, name string, data []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.names = append(p.names, name)
	return "renders/" + name, nil
}

func withPublisher(t *testing.T, p publisher) {
	original := newPublisher
	newPublisher = func(cfg output.S3Config) (publisher, error) { return p, nil }
	t.Cleanup(func() { newPublisher = original })
}

func TestRun_Publish(t *testing.T) {
	fake := &fakePublisher{}
	withPublisher(t, fake)

	cfg := smallConfig(t)
	cfg.Publish = true
	cfg.Sequence.Frames = 2
	cfg.Output.Format = "jpg"

	frames, err := run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Len(t, fake.names, 2)
	assert.Equal(t, "renders/"+fake.names[1], frames[1].Key)
	assert.Equal(t, ".jpg", filepath.Ext(frames[1].Path))
}

func TestRun_PublishFailureStopsSequence(t *testing.T) {
	uploadErr := errors.New("bucket unavailable")
	withPublisher(t, &fakePublisher{err: uploadErr})

	cfg := smallConfig(t)
	cfg.Publish = true
	cfg.Sequence.Frames = 5

	frames, err := run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
	assert.ErrorIs(t, err, uploadErr)
	assert.Nil(t, frames)
}

func TestRun_InvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{"unknown scene", func(cfg *config.Config) { cfg.Scene = "nope" }},
		{"unknown format", func(cfg *config.Config) { cfg.Output.Format = "exr" }},
		{"missing reference", func(cfg *config.Config) { cfg.Reference = "/nonexistent/ref.png" }},
		{"bad hit selection", func(cfg *config.Config) { cfg.HitSelection = "random" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig(t)
			tt.modify(cfg)
			_, err := run(context.Background(), cfg, cliOptions{}, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := smallConfig(t)
	cfg.Sequence.Frames = 3
	_, err := run(ctx, cfg, cliOptions{}, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}
