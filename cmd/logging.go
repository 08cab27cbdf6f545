package cmd

import (
	"log/slog"
	"os"
	"scene-frames/lib"
	"strings"

	"golang.org/x/term"
)

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		switch strings.ToLower(envLevel) {
		case "debug":
			logLevel = slog.LevelDebug
		case "info":
			logLevel = slog.LevelInfo
		case "warn", "warning":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// Scan progress is part of the normal output; the progress bar keeps stderr.
	out := os.Stdout
	var handler slog.Handler
	if isTerminal(out) {
		handler = lib.NewColorHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
