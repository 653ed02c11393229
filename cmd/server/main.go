package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chessboard-backend/internal/config"
	"github.com/benbeisheim/chessboard-backend/internal/controller"
	"github.com/benbeisheim/chessboard-backend/internal/movelog"
	"github.com/benbeisheim/chessboard-backend/internal/service"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel())

	var recorder service.MoveRecorder
	if cfg.MoveLogPath != "" {
		moves, err := movelog.Open(cfg.MoveLogPath)
		if err != nil {
			log.Fatal(err)
		}
		defer moves.Close()
		recorder = moves
	}

	// Initialize services
	gameManager := service.NewGameManager(cfg.MatchInterval, recorder)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(gameService, cfg.Origins())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("HTTP listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}
}
