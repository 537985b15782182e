package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpshade/quranembed/internal/api"
	"github.com/dpshade/quranembed/internal/config"
	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/dpshade/quranembed/internal/embeddings"
	"github.com/dpshade/quranembed/internal/pipeline"
	"github.com/dpshade/quranembed/internal/verify"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to config file (optional)")
	dataDir := flag.String("data", "", "Directory containing per-surah JSON files (1.json..114.json)")
	outFile := flag.String("out", "", "Path of the consolidated output file")
	modelDir := flag.String("model-dir", "", "Directory to cache model files")
	provider := flag.String("provider", "", "Embedding provider (onnx or hash)")
	workers := flag.Int("workers", 0, "Number of concurrent embedding calls")
	port := flag.String("port", "", "Port for serve mode")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	// Setup logging
	zerolog.TimeFieldFormat = time.RFC3339
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg.Debug = *debug

	// Flags override the config file
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outFile != "" {
		cfg.OutputFile = *outFile
	}
	if *modelDir != "" {
		cfg.ModelDir = *modelDir
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *port != "" {
		cfg.Port = *port
	}

	command := flag.Arg(0)
	if command == "" {
		command = "embed"
	}

	switch command {
	case "embed":
		runEmbed(cfg)
	case "verify":
		runVerify(cfg)
	case "serve":
		runServe(cfg)
	default:
		log.Fatal().Str("command", command).Msg("Unknown command (expected embed, verify or serve)")
	}
}

// runEmbed is the full pipeline: load, embed, write, verify.
func runEmbed(cfg *config.Config) {
	if _, err := os.Stat(cfg.DataDir); err != nil {
		log.Fatal().Str("dir", cfg.DataDir).Msg("Data directory not found")
	}

	log.Info().Str("provider", cfg.Provider).Msg("Initializing embedding provider...")
	prov, err := embeddings.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize embedding provider")
	}
	defer prov.Close()

	surahs, totalVerses, err := corpus.LoadDirectory(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load corpus")
	}
	log.Info().
		Int("surahs", len(surahs)).
		Int("verses", totalVerses).
		Msg("Corpus loaded")

	start := time.Now()
	stats := pipeline.New(prov, cfg.Workers).Run(surahs, totalVerses)

	c := corpus.New(surahs, totalVerses)
	log.Info().Str("path", cfg.OutputFile).Msg("Saving corpus...")
	if err := corpus.Write(cfg.OutputFile, c); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output file")
	}

	if info, err := os.Stat(cfg.OutputFile); err == nil {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		log.Info().
			Int("embedded", stats.Embedded).
			Int("failed", stats.Failed).
			Str("size", fmt.Sprintf("%.2f MB", sizeMB)).
			Msg("Corpus saved")
	}

	report, err := verify.Run(cfg.OutputFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Verification failed")
	}
	report.Log()

	log.Info().
		Str("elapsed", fmt.Sprintf("%.1f minutes", time.Since(start).Minutes())).
		Msg("Done")
}

// runVerify checks an existing output file without re-embedding.
func runVerify(cfg *config.Config) {
	report, err := verify.Run(cfg.OutputFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Verification failed")
	}
	report.Log()
}

// runServe exposes an existing output file over HTTP.
func runServe(cfg *config.Config) {
	c, err := corpus.Read(cfg.OutputFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.OutputFile).Msg("Failed to load corpus (run embed first)")
	}

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	apiHandler := api.NewHandler(c)

	// Routes
	e.GET("/health", apiHandler.Health)
	e.GET("/status", apiHandler.Status)
	e.GET("/surahs/:id", apiHandler.GetSurah)
	e.GET("/surahs/:id/verses/:verse", apiHandler.GetVerse)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting HTTP server")
		if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := e.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing server")
	}
}
