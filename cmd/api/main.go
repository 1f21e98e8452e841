// Package main is the entry point for the chat server. It serves the browser
// client, the account and password reset API, and proxies chat messages to
// the generative language API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/handlers"
	"github.com/yasinhessnawi1/chatbridge/internal/server"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// Version information is set during build time through linker flags.
var (
	// version represents the release version of the application.
	version = "dev"

	// commit is the git commit hash from which the application was built.
	commit = "none"

	// buildDate is the timestamp when the application was built.
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
func init() {
	// Configuration may come from the real environment instead
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("ChatBridge Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Bootstrap logger until the configured one is in place
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Str(constants.LogFieldBackend, cfg.Store.Backend).
		Msg("Starting ChatBridge server")

	utils.InitValidator()

	build := handlers.BuildInfo{
		Version:   cfg.App.Version,
		Commit:    commit,
		BuildDate: buildDate,
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
	srv, err := server.NewServer(ctx, cfg, build)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Blocks until a shutdown signal is received
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
