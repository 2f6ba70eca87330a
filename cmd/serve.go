package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "github.com/UT-B-VIMAL/hrms-backend/internal/configs"
	httpapi "github.com/UT-B-VIMAL/hrms-backend/internal/http"
	"github.com/UT-B-VIMAL/hrms-backend/internal/notify"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
	"github.com/UT-B-VIMAL/hrms-backend/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the HRMS API and the daily auto-pause sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)

		redisClient := config.NewRedisClient(cfg.RedisAddr, cfg.RedisEnabled)
		if redisClient != nil {
			defer redisClient.Close()
		}

		taskRepo := repository.NewTaskRepository(database)
		subtaskRepo := repository.NewSubtaskRepository(database)
		timelineRepo := repository.NewTimelineRepository(database)
		historyRepo := repository.NewHistoryRepository(database)
		userRepo := repository.NewUserRepository(database)
		teamRepo := repository.NewTeamRepository(database)

		notifier := notify.NewPublisher(redisClient, notify.NewRegistry())

		taskService := services.NewTaskService(taskRepo, subtaskRepo, historyRepo, userRepo, teamRepo)
		trackerService := services.NewTrackerService(taskRepo, subtaskRepo, timelineRepo, historyRepo, userRepo, notifier)
		reportService := services.NewReportService(taskRepo, timelineRepo, userRepo, teamRepo, cfg.Location())

		sweeper := services.NewSweeperService(timelineRepo, cfg.Location(), cfg.SweepHour, cfg.SweepMinute)
		sweeper.Start()

		e := echo.New()
		handler := httpapi.NewHandler(taskService, trackerService, reportService, cfg.Location())
		httpapi.Register(e, handler, cfg.JWTSecret, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		sweeper.Shutdown()

		log.Println("HTTP server and sweeper shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
