package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"census-income/internal/cfg"
	"census-income/internal/metrics"
	"census-income/internal/pipeline"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	m := metrics.New()
	trainer := pipeline.NewTrainer(c, m)

	report, err := trainer.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	fmt.Println("Model Comparison Report:")
	fmt.Println("----------------------------------------")
	for _, o := range report {
		fmt.Printf("  %-25s %.4f\n", o.Name, o.Accuracy)
	}
	fmt.Println("----------------------------------------")
}
