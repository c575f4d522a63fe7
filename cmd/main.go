package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FlowDomain/NutriLog/config"
	"github.com/FlowDomain/NutriLog/controllers"
	"github.com/FlowDomain/NutriLog/routes"
	"github.com/FlowDomain/NutriLog/services"
	"github.com/FlowDomain/NutriLog/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	shutdownTracing, err := config.InitTracing(cfg.OTelExporter, os.Stdout)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	gradingCfg, err := config.LoadGrading(cfg.GradingFile)
	if err != nil {
		return err
	}
	grader := utils.NewGrader(gradingCfg)

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	log.Info("database ready", "host", cfg.DB.Host, "name", cfg.DB.Name)

	// AWS backed collaborators stay nil interfaces when AWS is not configured.
	var (
		recognizer services.LabelRecognizer
		uploader   services.ImageUploader
		mailer     services.TextMailer
		pusher     services.Pusher
		push       *services.PushService
	)
	if cfg.AWS.Enabled() {
		awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
		if err != nil {
			return err
		}
		recognizer = services.NewRekognitionService(awsCfg)
		if cfg.AWS.S3Bucket != "" {
			uploader = utils.NewS3Uploader(awsCfg, cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		}
		if cfg.AWS.SESSender != "" {
			mailer = utils.NewMailer(awsCfg, cfg.AWS.SESSender)
		}
		push = services.NewPushService(db, awsCfg, cfg.AWS.SNSFCMArn, log)
		pusher = push
		log.Info("aws services enabled", "region", cfg.AWS.Region)
	} else {
		log.Warn("AWS_REGION not set; image recognition, uploads, email and push are disabled")
	}

	hub := services.NewRealtimeHub(log)
	alerts := services.NewAlertBus(db, hub, pusher, log)
	foods := services.NewFoodService(db, recognizer)
	profiles := services.NewProfileService(db, uploader, gradingCfg.DefaultTargets, log)
	daily := services.NewDailyLogService(db, grader)
	meals := services.NewMealService(db, foods, profiles, daily, alerts, hub, grader, log)
	analytics := services.NewAnalyticsService(db, daily, mailer)

	if cfg.RedisURL != "" {
		client, err := config.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		cache := services.NewRedisReportCache(client)
		analytics.UseCache(cache)
		meals.UseReportCache(cache)
		log.Info("analytics report cache enabled")
	}

	engine := routes.SetupRouter(routes.Handlers{
		Auth:      controllers.NewAuthController(services.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL)),
		Profile:   controllers.NewProfileController(profiles),
		Food:      controllers.NewFoodController(foods),
		Meal:      controllers.NewMealController(meals),
		DailyLog:  controllers.NewDailyLogController(daily),
		Analytics: controllers.NewAnalyticsController(analytics),
		Realtime:  controllers.NewRealtimeController(hub),
		Device:    controllers.NewDeviceController(push),
		Alert:     controllers.NewAlertController(alerts),
	}, cfg.JWT.Secret, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewHTTPHandler(engine, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}
