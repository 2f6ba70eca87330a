package cmd

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/UT-B-VIMAL/hrms-backend/internal/configs"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
	"github.com/UT-B-VIMAL/hrms-backend/internal/services"
)

// One-shot counterpart of the daily sweeper, for catching up after the
// server was down over a day boundary.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Force-close timeline entries left open",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		database := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)

		timelineRepo := repository.NewTimelineRepository(database)
		sweeper := services.NewSweeperService(timelineRepo, cfg.Location(), cfg.SweepHour, cfg.SweepMinute)

		closed, err := sweeper.SweepOnce(context.Background(), time.Now())
		if err != nil {
			return err
		}

		log.Printf("sweep finished, closed %d timeline entries", closed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
