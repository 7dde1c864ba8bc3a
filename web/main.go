package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	// Parse command line flags
	configPath := flag.String("config", "", "YAML config file")
	envFile := flag.String("env", ".env", "Environment file with RAYTRACER_* and S3_* variables")
	addr := flag.String("addr", "", "Address to serve on (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg, *envFile); err != nil {
		log.Fatal().Err(err).Msg("apply environment")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Whitted Raytracer Web Server")
	log.Info().Msgf("Visit http://localhost%s to start rendering", cfg.Server.Addr)

	webServer := server.NewServer(cfg, log.Logger)
	if err := webServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
