package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smallery/sleeper-fantasy-api/internal/api/fantasy"
	"github.com/smallery/sleeper-fantasy-api/internal/api/sleeper"
	"github.com/smallery/sleeper-fantasy-api/internal/bot"
	"github.com/smallery/sleeper-fantasy-api/internal/config"
	"github.com/smallery/sleeper-fantasy-api/internal/logging"
	"github.com/smallery/sleeper-fantasy-api/internal/repository/memory"
	"github.com/smallery/sleeper-fantasy-api/internal/scheduler"
	"github.com/smallery/sleeper-fantasy-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	client := sleeper.NewClient(cfg.SleeperAPI)
	players, err := sleeper.NewPlayerAPI(client, sleeper.PlayerOptions{
		Sport:     cfg.SleeperAPI.Sport,
		CacheFile: cfg.SleeperAPI.CacheFile,
		CacheTTL:  cfg.SleeperAPI.CacheTTL,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	fantasyAPI := fantasy.NewAPI(sleeper.NewAPI(client), players, cfg.SleeperAPI.LeagueID)

	repo := memory.NewRepository()
	fantasyService := service.NewFantasyService(fantasyAPI, repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := fantasyService.WarmPlayerCache(ctx); err != nil {
		slog.Warn("Player cache warm-up failed", "error", err)
	}

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, fantasyService, logger)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule, fantasyService, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.HealthAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
