package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeidalz13/battleship-bot/api"
	"github.com/saeidalz13/battleship-bot/db"
	"github.com/saeidalz13/battleship-bot/db/sqlc"
	"github.com/saeidalz13/battleship-bot/internal/config"
	"github.com/saeidalz13/battleship-bot/internal/logger"
	"github.com/saeidalz13/battleship-bot/internal/notify"
	"github.com/saeidalz13/battleship-bot/internal/random"
	mc "github.com/saeidalz13/battleship-bot/models/connection"
	"github.com/saeidalz13/battleship-bot/models/match"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Setup(os.Stderr, cfg.LogLevel, "battleship")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []api.Option{}

	// Analytics and match results are optional in dev
	if cfg.DatabaseUrl != "" {
		psql := db.MustConnectToDb(cfg.DatabaseUrl, db.DefaultMigrationDir)
		defer psql.Close()

		dbManager := sqlc.NewDbManager(sqlc.New(psql))
		opts = append(opts, api.WithDbManager(&dbManager))
	} else {
		log.Warn("DATABASE_URL is empty; analytics are off")
	}

	publisher := notify.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	defer publisher.Close()
	opts = append(opts, api.WithPublisher(publisher))

	bsm := mc.NewBattleshipSessionManager()
	go bsm.CleanupPeriodically(ctx)

	bgm := match.NewBattleshipGameManager(random.NewTimeSeeded())

	rp, err := api.NewRequestProcessor(bsm, bgm, opts...)
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	mux.HandleFunc("GET /stats", rp.HandleStats)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	log.Info("listening", "addr", cfg.Addr(), "stage", cfg.Stage, "server_ip", rp.GetIpNet().IP.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", "err", err)
	}
}
