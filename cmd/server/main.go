// Package main provides the entry point for the modelrelay server, an HTTP
// facade over the LLM wire-format translation engine. It translates request
// and response payloads between OpenAI, Claude, Gemini, Gemini CLI, and
// Antigravity shapes.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/modelrelay/modelrelay/internal/api"
	"github.com/modelrelay/modelrelay/internal/config"
	"github.com/modelrelay/modelrelay/internal/logging"
	_ "github.com/modelrelay/modelrelay/internal/registry"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// A .env alongside the binary may supply environment overrides; absence
	// is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	port := flag.Int("port", 0, "listen port override")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		log.WithFields(log.Fields{
			"version":    Version,
			"commit":     Commit,
			"build_date": BuildDate,
		}).Info("modelrelay")
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("path", *configPath).Warn("config file not found, using defaults")
			cfg = &config.Config{Port: config.DefaultPort}
		} else {
			log.WithError(err).Fatal("failed to load configuration")
		}
	}
	if *port > 0 {
		cfg.Port = *port
	}

	logging.Setup(cfg)
	logBuffer := logging.NewRingBuffer(0)
	log.AddHook(logBuffer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.New(cfg, logBuffer)

	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			if *port > 0 {
				next.Port = *port
			}
			server.ApplyConfig(next)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("config watcher stopped")
		}
	}()

	if err := server.Run(ctx); err != nil {
		log.WithError(err).Fatal("server exited")
	}
	log.Info("shutdown complete")
}
