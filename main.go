package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-insight/domain/repository"
	"comment-insight/infrastructure/cache"
	youtubeclient "comment-insight/infrastructure/clients/youtube"
	"comment-insight/infrastructure/configuration"
	"comment-insight/infrastructure/filecsv"
	"comment-insight/infrastructure/logger"
	"comment-insight/infrastructure/metrics"
	"comment-insight/infrastructure/persistence"
	"comment-insight/infrastructure/pubsub"
	"comment-insight/infrastructure/realtime"
	"comment-insight/infrastructure/sentiment"
	"comment-insight/infrastructure/utils"
	httpHandler "comment-insight/interfaces/http"
	"comment-insight/server"
	"comment-insight/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// OS env still has precedence over these files
	if loaded := configuration.LoadEnvFromFile("config.env", ".env"); len(loaded) > 0 {
		logger.GetLogger().WithField("files", loaded).Info("Loaded env files")
		configuration.Reload()
	}

	cfg := configuration.C

	if len(os.Args) > 1 && os.Args[1] == "admin-token" {
		os.Exit(issueAdminToken(cfg.App.SecretKey))
	}

	db, err := persistence.NewDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	store := persistence.NewAnalysisRepository(db, cfg.Database.Vendor)
	defer store.Close()
	logger.GetLogger().WithField("vendor", cfg.Database.Vendor).Info("Database connected.")

	state := usecase.NewAnalysisState()
	analysisUsecase := usecase.NewAnalysisUsecase(newVideoSource(ctx), store, sentiment.NewClassifier(nil), state).
		WithMaxComments(cfg.YouTube.MaxComments).
		WithURLList(func() ([]string, error) {
			return filecsv.ReadURLList(cfg.Batch.URLFile, cfg.Batch.URLPrefix)
		})

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisClient)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without cache")
	}
	if redisClient != nil {
		analysisCache := cache.NewAnalysisCache(redisClient, time.Duration(cfg.RedisClient.TTLSeconds)*time.Second)
		defer analysisCache.Close()
		analysisUsecase.WithCache(analysisCache, time.Duration(cfg.RedisClient.TTLSeconds)*time.Second)
	}

	pubSubClient, err := pubsub.NewClient(ctx, cfg.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - analysis events will not be published")
	}
	if pubSubClient != nil {
		publisher := pubsub.NewAnalysisPublisher(pubSubClient, cfg.Pubsub.Topic)
		defer publisher.Close()
		analysisUsecase.WithPublisher(publisher)
	}

	hub := realtime.NewProgressHub()
	analysisUsecase.WithProgress(hub)

	routerConfig := server.RouterConfig{
		AllowOrigins: cfg.App.AllowOrigins,
		SecretKey:    cfg.App.SecretKey,
		BatchStream:  hub.Serve,
	}
	if cfg.MetricsEnabled() {
		analysisUsecase.WithMetrics(metrics.NewRecorder())
		routerConfig.Metrics = gin.WrapH(metrics.Handler())
	}

	router := server.InitiateRouter(
		httpHandler.NewAnalysisHandler(analysisUsecase),
		httpHandler.NewHealthHandler(store),
		routerConfig,
	)

	g, ctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.GetLogger().WithFields(map[string]interface{}{"port": cfg.App.Port, "tls": cfg.App.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		var err error
		if cfg.App.TLSEnabled && cfg.App.TLSCertFile != "" && cfg.App.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.App.TLSCertFile, cfg.App.TLSKeyFile)
		} else {
			if cfg.App.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Batch.Enabled {
		scheduler := usecase.NewBatchScheduler(analysisUsecase, cfg.Batch.IntervalDays, cfg.Batch.At, cfg.Batch.RunBatchOnStart())
		g.Go(func() error { return scheduler.Run(ctx) })
	} else {
		logger.GetLogger().Info("Batch scheduler disabled")
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// newVideoSource returns nil when no YouTube credentials are configured;
// read routes keep working and analysis routes answer 503.
func newVideoSource(ctx context.Context) repository.IVideoSource {
	ytConfig, err := configuration.GetYouTubeConfig()
	if err != nil || !ytConfig.HasCredentials() {
		logger.GetLogger().Info("YouTube API credentials not configured - analysis is disabled")
		return nil
	}

	source, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		ClientID:          ytConfig.ClientID,
		ClientSecret:      ytConfig.ClientSecret,
		RedirectURL:       ytConfig.RedirectURL,
		AccessToken:       ytConfig.AccessToken,
		RefreshToken:      ytConfig.RefreshToken,
		APIKey:            ytConfig.APIKey,
		RequestsPerSecond: ytConfig.RequestsPerSecond,
		Burst:             ytConfig.Burst,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to initialize YouTube client - analysis is disabled")
		return nil
	}
	logger.GetLogger().WithField("api_key_mode", ytConfig.APIKey != "").Info("YouTube client initialized")
	return source
}

// issueAdminToken prints a bearer token for the admin routes, valid for 24 hours
func issueAdminToken(secretKey string) int {
	if secretKey == "" {
		logger.GetLogger().Error("SECRET_KEY is empty - admin routes are not protected")
		return 1
	}
	now := time.Now()
	token, err := utils.GenerateToken(map[string]interface{}{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	}, secretKey)
	if err != nil {
		return 1
	}
	fmt.Println(token)
	return 0
}
