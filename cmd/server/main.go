// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/tlacour/president/internal/auth"
	"github.com/tlacour/president/internal/database"
	"github.com/tlacour/president/internal/engine"
	"github.com/tlacour/president/internal/handlers"
	"github.com/tlacour/president/internal/middleware"
	gamesync "github.com/tlacour/president/internal/sync"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	srv := handlers.NewGameServer(logger)
	srv.Persist = database.SaveSnapshot
	srv.Load = database.LoadSnapshot
	srv.OnFinished = func(ctx context.Context, g *engine.Game) {
		if err := database.RecordResults(ctx, g); err != nil {
			logger.WithError(err).Errorf("failed to record results for game %s", g.ID)
		}
	}

	gateway, err := gamesync.ConnectRedis(logger)
	if err != nil {
		logger.WithError(err).Warn("running without sync gateway; snapshots will not replicate")
	} else {
		srv.Publish = gateway.Publish
		srv.Subscribe = gateway.Subscribe
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	// game endpoints
	mux.Handle("/game/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateGameHandler(srv),
	)))
	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))
	mux.Handle("/game/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GetGameHandler(srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
