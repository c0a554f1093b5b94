// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/calebsw/unoroom/internal/auth"
	"github.com/calebsw/unoroom/internal/config"
	"github.com/calebsw/unoroom/internal/database"
	"github.com/calebsw/unoroom/internal/handlers"
	"github.com/calebsw/unoroom/internal/journal"
	"github.com/calebsw/unoroom/internal/middleware"
	"github.com/calebsw/unoroom/internal/monitor"
	"github.com/calebsw/unoroom/internal/room"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}
	cfg := config.Load()

	// Optional backends: the server is fully functional in memory alone.
	if err := journal.Connect(); err != nil {
		logger.WithError(err).Warn("redis unavailable, command journal disabled")
	}
	if database.Configured() {
		if err := database.Connect(context.Background()); err != nil {
			logger.WithError(err).Warn("postgres unavailable, match history disabled")
		}
	}

	var mon *monitor.Monitor
	if cfg.MetricsAddr != "" {
		mon = monitor.New("unoroom")
		mon.Serve(cfg.MetricsAddr)
		logger.Infof("metrics on %s", cfg.MetricsAddr)
	}

	conns := handlers.NewConnManager(logger)
	registry := room.NewRegistry(conns, logger, mon, room.Config{
		GracePeriod: cfg.RoomGracePeriod,
		ResetDelay:  cfg.PlayAgainResetDelay,
		MaxPlayers:  cfg.MaxPlayers,
	})

	mux := http.NewServeMux()

	// game websocket
	mux.Handle("/ws", middleware.LogMiddleware(logger)(
		handlers.NewWSServer(registry, conns, logger, mon),
	))

	// debug endpoints
	mux.Handle("/debug/rooms", middleware.LogMiddleware(logger)(
		handlers.DebugRoomsHandler(registry, logger),
	))

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
