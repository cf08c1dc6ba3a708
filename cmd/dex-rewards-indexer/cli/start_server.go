package cli

import (
	"fmt"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/eventsource"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/oracle"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	dbmodel "github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/tracing"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/queue"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the DEX rewards indexer server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up rewards db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	eventSource, err := eventsource.NewClient(&cfg.EventSource)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating event source client")
	}

	oracleClient, err := oracle.NewClient(&cfg.Oracle)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating oracle client")
	}

	qm, err := queue.NewQueueManager(cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize queue manager")
	}

	service := services.NewService(cfg, dbClient, eventSource, oracleClient, qm)

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	service.StartIndexerSync(ctx)
	return nil
}
