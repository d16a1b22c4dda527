package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RoomBoard/internal/config"
	"RoomBoard/internal/geometry"
	rbnet "RoomBoard/internal/net"
	"RoomBoard/internal/room"
)

func main() {
	cfg := config.Load()
	level, _ := cfg.Level()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fonts, err := geometry.NewFontMeasurer()
	if err != nil {
		log.Warn("exports fall back to approximate text", "error", err)
	}
	hub := room.NewHub(log.With("component", "hub"))
	srv := room.NewServer(hub, log.With("component", "relay"), room.WithFonts(fonts))

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var adv *rbnet.Advertiser
	if cfg.MDNS {
		if adv, err = rbnet.Advertise(cfg.Port, cfg.Room, log.With("component", "mdns")); err != nil {
			log.Warn("mdns advertisement failed", "error", err)
		}
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if adv != nil {
			adv.Shutdown()
		}
		hub.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting relay", "port", cfg.Port, "room", cfg.Room)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
