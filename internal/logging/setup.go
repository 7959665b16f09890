// Package logging configures logrus for the server and provides Gin
// middleware for request logging and panic recovery.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/modelrelay/modelrelay/internal/config"
)

// Setup applies the logging configuration to the global logrus logger and
// returns the writer logs go to, so callers can share it with other sinks.
func Setup(cfg *config.Config) io.Writer {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	var out io.Writer = os.Stderr
	if cfg.Logging.ToFile {
		out = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Logging.Dir, "server.log"),
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   true,
		}
	}
	log.SetOutput(out)
	return out
}
