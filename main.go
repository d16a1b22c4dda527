package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"RoomBoard/internal/board"
	"RoomBoard/internal/config"
	"RoomBoard/internal/geometry"
	rbnet "RoomBoard/internal/net"
	"RoomBoard/internal/render"
	"RoomBoard/internal/room"
	"RoomBoard/internal/state"
	"RoomBoard/internal/ui"
)

const appTitle = "RoomBoard"

func main() {
	cfg := config.Load()
	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fonts, err := geometry.NewFontMeasurer()
	if err != nil {
		log.Error("loading fonts", "error", err)
		os.Exit(1)
	}
	b := board.New(
		board.WithMeasurer(fonts),
		board.WithLogger(log.With("component", "board")),
		board.WithZoomBounds(cfg.ZoomMin, cfg.ZoomMax),
		board.WithHistoryLimit(cfg.HistoryLimit),
		board.WithStyle(state.Style{Color: cfg.Color, StrokeWidth: cfg.StrokeWidth, FontSize: cfg.FontSize}),
		board.WithEraserWidth(cfg.EraserWidth),
	)
	app := ui.NewApp(appTitle, b, render.New(fonts, log), log)

	sess := newSession(b, app, log.With("component", "session"))
	b.OnCommit(sess.publish)
	app.OnJoin = func(addr, roomID string) {
		if roomID == "" {
			roomID = cfg.Room
		}
		go sess.join(addr, roomID)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		app.Quit()
	}()

	args := os.Args
	switch {
	case len(args) > 1 && strings.HasPrefix(args[1], rbnet.LinkScheme):
		addr, roomID, err := rbnet.ParseShareLink(args[1], cfg.Room)
		if err != nil {
			log.Error("invalid share link", "error", err)
			os.Exit(1)
		}
		runClient(app, sess, addr, roomID)
	case cfg.RelayURL != "":
		runClient(app, sess, cfg.RelayURL, cfg.Room)
	default:
		runHost(cfg, log, app, sess)
	}
}

// runHost serves a relay in-process and joins it like any other member.
func runHost(cfg config.Config, log *slog.Logger, app *ui.App, sess *session) {
	log.Info("starting as host", "port", cfg.Port, "room", cfg.Room)

	relayFonts, err := geometry.NewFontMeasurer()
	if err != nil {
		log.Warn("relay exports fall back to approximate text", "error", err)
	}
	hub := room.NewHub(log.With("component", "hub"))
	srv := room.NewServer(hub, log.With("component", "relay"), room.WithFonts(relayFonts))

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Error("relay unavailable, drawing locally", "error", err)
		app.SetStatus("Could not start relay: " + err.Error())
		app.Run()
		return
	}
	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("relay server error", "error", err)
		}
	}()

	var adv *rbnet.Advertiser
	if cfg.MDNS {
		if adv, err = rbnet.Advertise(cfg.Port, cfg.Room, log.With("component", "mdns")); err != nil {
			log.Warn("mdns advertisement failed", "error", err)
		}
	}

	link := rbnet.HostLink(cfg.Port, cfg.Room)
	log.Info("share link", "link", link)
	app.SetShareLink(link)
	go sess.join(net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port)), cfg.Room)

	app.Run()

	sess.close()
	if adv != nil {
		adv.Shutdown()
	}
	hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func runClient(app *ui.App, sess *session, addr, roomID string) {
	app.SetStatus("Connecting to " + addr + "...")
	go sess.join(addr, roomID)
	app.Run()
	sess.close()
}
