package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/replog/internal/config"
	"github.com/meltforce/replog/internal/mcp"
	"github.com/meltforce/replog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local database mode)")
	remoteURL := flag.String("url", "", "base URL of a remote RepLog server (remote mode, e.g. http://replog:80)")
	userID := flag.Int("user", 1, "user ID to scope queries to (local mode only)")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP stdio protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(*remoteURL)
		log.Info("RepLog MCP starting", "version", Version, "mode", "remote", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("RepLog MCP starting", "version", Version, "mode", "local")
	}

	s := mcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
