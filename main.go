package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// cliOptions are the settings that only make sense on the command line
type cliOptions struct {
	saveScene string // write the resolved scene as YAML
	list      bool
}

// publisher uploads encoded frames
type publisher interface {
	Publish(ctx context.Context, name string, data []byte) (string, error)
}

var newPublisher = func(cfg output.S3Config) (publisher, error) {
	return output.NewS3Publisher(cfg)
}

// renderedFrame records where a frame of the run ended up
type renderedFrame struct {
	Index     int
	Path      string
	Thumbnail string
	Key       string // object key when published
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	cfg, opts, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if opts.list {
		listScenes(os.Stdout, cfg.ScenesDir)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames, err := run(ctx, cfg, opts, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("render failed")
	}
	for _, f := range frames {
		log.Info().Int("frame", f.Index).Str("path", f.Path).Str("key", f.Key).Msg("render saved")
	}
}

// loadConfig builds the configuration from defaults, an optional YAML file, the environment
// and finally the flags that were set explicitly
func loadConfig(args []string, usage io.Writer) (*config.Config, cliOptions, error) {
	defaults := config.Default()
	var opts cliOptions

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(usage)

	configPath := fs.String("config", "", "YAML config file")
	envFile := fs.String("env", ".env", "Environment file with RAYTRACER_* and S3_* variables")
	sceneName := fs.String("scene", defaults.Scene, "Built-in scene: "+strings.Join(scene.Names(), ", "))
	sceneFile := fs.String("scene-file", "", "YAML scene description (overrides -scene)")
	width := fs.Int("width", 0, "Image width (0 = scene default)")
	height := fs.Int("height", 0, "Image height (0 = scene default)")
	fov := fs.Float64("fov", 0, "Vertical field of view in degrees (0 = scene default)")
	limit := fs.Int("limit", -1, "Reflection recursion limit (-1 = scene default)")
	hit := fs.String("hit", "", "Hit selection: nearest or sorted")
	workers := fs.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	parallel := fs.Bool("parallel", defaults.Parallel, "Render bands in parallel")
	frames := fs.Int("frames", defaults.Sequence.Frames, "Number of frames to render")
	move := fs.String("move", "", "Camera step per frame as x,y,z")
	rotate := fs.String("rotate", "", "Camera rotation per frame in degrees as x,y,z")
	lightStep := fs.Float64("light-step", 0, "Light intensity change per frame")
	outDir := fs.String("out", defaults.Output.Dir, "Output directory")
	format := fs.String("format", defaults.Output.Format, "Output format: png, jpg, bmp, gif or tiff")
	thumbnail := fs.Int("thumbnail", 0, "Also save a thumbnail of this width (0 = none)")
	reference := fs.String("reference", "", "Compare the first frame against this image")
	publish := fs.Bool("publish", false, "Upload frames to the configured S3 bucket")
	logLevel := fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&opts.saveScene, "save-scene", "", "Write the resolved scene to this YAML file")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, opts, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg, *envFile); err != nil {
		return nil, opts, err
	}

	// Flags win over the config file and the environment, but only when set
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
			cfg.SceneFile = ""
		case "scene-file":
			cfg.SceneFile = *sceneFile
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "fov":
			cfg.FOV = *fov
		case "limit":
			if *limit >= 0 {
				cfg.ReflectionsLimit = limit
			}
		case "hit":
			cfg.HitSelection = *hit
		case "workers":
			cfg.Workers = *workers
		case "parallel":
			cfg.Parallel = *parallel
		case "frames":
			cfg.Sequence.Frames = *frames
		case "move":
			setTriple(&cfg.Sequence.CameraStep, *move, &flagErr)
		case "rotate":
			setTriple(&cfg.Sequence.RotationStep, *rotate, &flagErr)
		case "light-step":
			cfg.Sequence.LightStep = *lightStep
		case "out":
			cfg.Output.Dir = *outDir
		case "format":
			cfg.Output.Format = *format
		case "thumbnail":
			cfg.Output.ThumbnailWidth = *thumbnail
		case "reference":
			cfg.Reference = *reference
		case "publish":
			cfg.Publish = *publish
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if flagErr != nil {
		return nil, opts, flagErr
	}

	return cfg, opts, nil
}

// setTriple parses s into dst, keeping the first error seen across flags
func setTriple(dst *[3]float64, s string, firstErr *error) {
	v, err := parseTriple(s)
	if err != nil {
		if *firstErr == nil {
			*firstErr = err
		}
		return
	}
	*dst = v
}

// parseTriple parses "x,y,z"
func parseTriple(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("invalid component %q in %q", p, s)
		}
		v[i] = f
	}
	return v, nil
}

func listScenes(w io.Writer, dir string) {
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		fmt.Fprintf(w, "Error listing scenes: %v\n", err)
		return
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %s\n", info.ID, info.Description)
		}
	}
}

// sceneLabel names output files after the scene file or the built-in scene
func sceneLabel(cfg *config.Config) string {
	if cfg.SceneFile != "" {
		return strings.TrimSuffix(filepath.Base(cfg.SceneFile), filepath.Ext(cfg.SceneFile))
	}
	return cfg.Scene
}

// run renders the configured sequence and writes every frame to the output directory
func run(ctx context.Context, cfg *config.Config, opts cliOptions, logger zerolog.Logger) ([]renderedFrame, error) {
	s, err := cfg.BuildScene()
	if err != nil {
		return nil, err
	}
	if opts.saveScene != "" {
		if err := loaders.SaveScene(opts.saveScene, s); err != nil {
			return nil, err
		}
		logger.Info().Str("path", opts.saveScene).Msg("scene saved")
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(strings.ToLower(cfg.Output.Format), ".")

	outputDir := filepath.Join(cfg.Output.Dir, sceneLabel(cfg))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	var reference *core.FrameBuffer
	if cfg.Reference != "" {
		if reference, err = loaders.LoadImage(cfg.Reference); err != nil {
			return nil, err
		}
		if reference.Width != s.Canvas.Width || reference.Height != s.Canvas.Height {
			return nil, fmt.Errorf("reference %s is %dx%d, frame is %dx%d", cfg.Reference,
				reference.Width, reference.Height, s.Canvas.Width, s.Canvas.Height)
		}
	}

	var uploader publisher
	if cfg.Publish {
		if uploader, err = newPublisher(cfg.S3); err != nil {
			return nil, err
		}
	}

	frameRenderer := renderer.NewFrameRenderer(integrator.NewWhitted(), cfg.RenderConfig(), logger)
	defer frameRenderer.Close()

	logger.Info().
		Str("scene", sceneLabel(cfg)).
		Int("width", s.Canvas.Width).
		Int("height", s.Canvas.Height).
		Int("workers", frameRenderer.NumWorkers()).
		Str("hit", s.Options.HitSelection.String()).
		Msg("starting render")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	frameChan, errChan := frameRenderer.RenderSequence(ctx, s, cfg.SequenceConfig())

	// Stop the sequence and wait for it to wind down before the pool is closed
	abort := func(err error) ([]renderedFrame, error) {
		cancel()
		for range frameChan {
		}
		return nil, err
	}

	timestamp := time.Now().Format("20060102_150405")
	var results []renderedFrame
	for result := range frameChan {
		name := fmt.Sprintf("render_%s_%04d.%s", timestamp, result.Index, ext)
		rf := renderedFrame{Index: result.Index, Path: filepath.Join(outputDir, name)}

		var buf bytes.Buffer
		if err := output.Encode(&buf, result.Frame, format); err != nil {
			return abort(err)
		}
		if err := os.WriteFile(rf.Path, buf.Bytes(), 0644); err != nil {
			return abort(fmt.Errorf("error saving image: %w", err))
		}

		if cfg.Output.ThumbnailWidth > 0 {
			rf.Thumbnail = filepath.Join(outputDir, fmt.Sprintf("thumb_%s_%04d.png", timestamp, result.Index))
			if err := output.SaveThumbnail(rf.Thumbnail, result.Frame, cfg.Output.ThumbnailWidth); err != nil {
				return abort(err)
			}
		}

		if reference != nil && result.Index == 0 {
			diff := result.Frame.DiffCount(reference)
			logger.Info().
				Int("differing_pixels", diff).
				Float64("differing_ratio", float64(diff)/float64(result.Stats.TotalPixels)).
				Str("reference", cfg.Reference).
				Msg("compared with reference")
		}

		if uploader != nil {
			if rf.Key, err = uploader.Publish(ctx, name, buf.Bytes()); err != nil {
				return abort(err)
			}
		}

		logger.Info().
			Int("frame", result.Index).
			Dur("elapsed", result.Stats.Elapsed).
			Float64("imbalance", result.Stats.Imbalance()).
			Str("path", rf.Path).
			Msg("frame saved")
		results = append(results, rf)
	}

	if err := <-errChan; err != nil {
		return results, err
	}
	return results, nil
}
