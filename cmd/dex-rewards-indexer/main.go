package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dexlabs-io/dex-rewards-indexer/cmd/dex-rewards-indexer/cli"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
