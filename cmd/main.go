package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.Stage == config.StageDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameManager := mb.NewBattleshipGameManager(
		mb.WithGameTTL(cfg.GameTTL),
		mb.WithPlacerFactory(placerFactory(cfg.PlacementSeed)),
	)
	sessionManager := mc.NewBattleshipSessionManager(
		mc.WithGracePeriod(cfg.GracePeriod),
		mc.WithOnExpire(gameManager.TerminateGame),
	)

	opts := []api.Option{api.WithPort(cfg.Port), api.WithStage(cfg.Stage)}
	if cfg.AnalyticsEnabled() {
		psql := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationDir)
		defer psql.Close()

		dbManager := sqlc.NewDbManager(sqlc.New(psql), api.ServerIpNet())
		log.Info().Str("server_ip", dbManager.Analytics.ServerIp().IPNet.IP.String()).Msg("analytics enabled")
		opts = append(opts, api.WithAnalytics(dbManager.Analytics))
	} else {
		log.Warn().Msg("DATABASE_URL not set; analytics disabled")
	}

	go gameManager.CleanupPeriodically(ctx)
	go sessionManager.CleanupPeriodically(ctx)

	server := api.NewServer(sessionManager, gameManager, opts...)
	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// With a seed every board is still different, but the sequence of
// boards repeats across restarts.
func placerFactory(seed *uint64) func() *mb.ShipPlacer {
	if seed == nil {
		return func() *mb.ShipPlacer { return mb.NewShipPlacer() }
	}

	var next atomic.Uint64
	next.Store(*seed)
	return func() *mb.ShipPlacer {
		return mb.NewShipPlacer(mb.WithSeed(next.Add(1) - 1))
	}
}
