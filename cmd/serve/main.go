package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"census-income/internal/cfg"
	"census-income/internal/metrics"
	"census-income/internal/predict"
	"census-income/internal/server"
	"census-income/internal/storage"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	m := metrics.New()
	service := predict.NewService(c.TransformerPath(), c.ModelPath(), c.TopPredictors, metrics.NewWrapper(m))

	// History storage is optional; without DATA_PATH the API serves
	// predictions but no history.
	var store *storage.Store
	if c.DataPath != "" {
		store, err = storage.New(c.DataPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open prediction history storage")
		}
		defer store.Close()
	} else {
		log.Warn().Msg("DATA_PATH not set, prediction history disabled")
	}

	srv := server.New(service, store, c.ServerPort)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
