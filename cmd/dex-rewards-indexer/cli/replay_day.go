package cli

import (
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/tracing"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func ReplayDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay-day",
		Short: "Recomputes balances and liquidity points for a single day",
		Long: "Re-runs the daily cycle for the given day. Balance and liquidity " +
			"point records are overwritten; the day's swap and referral points " +
			"are zeroed and awarded from scratch.",
		Args: cobra.ExactArgs(0),
		RunE: replayDay,
	}

	cmd.Flags().String("date", "", "day to replay in YYYY-MM-DD format (UTC)")
	//nolint:errcheck
	cmd.MarkFlagRequired("date")

	return cmd
}

func replayDay(cmd *cobra.Command, args []string) error {
	ctx := tracing.InjectTraceID(cmd.Context())
	log := log.Ctx(ctx)

	rawDate, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}
	date, err := time.ParseInLocation(time.DateOnly, rawDate, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --date %q: %w", rawDate, err)
	}

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}

	// no event source, oracle or queue: the replay touches stored ledgers only
	service := services.NewService(cfg, dbClient, nil, nil, nil)

	log.Info().Time("date", date).Msg("Replaying daily cycle")
	if err := service.ProcessDay(ctx, date); err != nil {
		return err
	}
	log.Info().Time("date", date).Msg("Replay completed")

	return nil
}
