package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/JLORep/ProjectTrench-sub004/internal/config"
	cronrunner "github.com/JLORep/ProjectTrench-sub004/internal/cron"
	"github.com/JLORep/ProjectTrench-sub004/internal/db"
	"github.com/JLORep/ProjectTrench-sub004/internal/handler"
	"github.com/JLORep/ProjectTrench-sub004/internal/logger"
	"github.com/JLORep/ProjectTrench-sub004/internal/market"
	"github.com/JLORep/ProjectTrench-sub004/internal/pipeline"
	"github.com/JLORep/ProjectTrench-sub004/internal/ranker"
	gormrepository "github.com/JLORep/ProjectTrench-sub004/internal/repository/gorm"
	"github.com/JLORep/ProjectTrench-sub004/internal/strategy"
)

func main() {
	cfgPath := os.Getenv("TRENCH_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TRENCH_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	defs := strategy.FromConfig(cfg.Strategies)
	if len(defs) == 0 {
		defs = strategy.Defaults()
	}
	bank, err := strategy.NewBank(defs, cfg.Scoring.MatchThreshold)
	if err != nil {
		logger.Fatal("strategy bank invalid", zap.Error(err))
	}
	if err := strategy.Seed(context.Background(), store, bank); err != nil {
		logger.Warn("strategy seed failed", zap.Error(err))
	}

	dexHTTP := &http.Client{Timeout: cfg.Providers.DexScreener.Timeout}
	dexClient := market.NewDexScreenerClient(dexHTTP, cfg.Providers.DexScreener.BaseURL)
	jupHTTP := &http.Client{Timeout: cfg.Providers.Jupiter.Timeout}
	jupClient := market.NewJupiterClient(jupHTTP, cfg.Providers.Jupiter.BaseURL)
	solHTTP := &http.Client{Timeout: cfg.Providers.Solscan.Timeout}
	solClient := market.NewSolscanClient(solHTTP, cfg.Providers.Solscan.BaseURL)

	enricher := market.NewEnricher(logger,
		market.RetryPolicy{
			MaxAttempts:    cfg.Providers.Retry.MaxAttempts,
			InitialBackoff: cfg.Providers.Retry.InitialBackoff,
			MaxBackoff:     cfg.Providers.Retry.MaxBackoff,
		},
		cfg.Providers.CacheTTL,
		[]market.MetricsProvider{dexClient, jupClient},
		[]market.HolderProvider{solClient},
	)

	orchestrator := pipeline.New(logger, store, enricher, bank, cfg.Pipeline)

	rank := &ranker.Ranker{
		Repo:          store,
		Logger:        logger,
		TopN:          cfg.Ranking.TopN,
		MinConfidence: cfg.Ranking.MinConfidence,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	messageHandler := &handler.MessageHandler{Pipeline: orchestrator, Logger: logger}
	messageHandler.Register(engine)
	signalHandler := &handler.SignalHandler{Repo: store}
	signalHandler.Register(engine)
	rankingHandler := &handler.RankingHandler{Repo: store, Ranker: rank, Logger: logger}
	rankingHandler.Register(engine)
	strategyHandler := &handler.StrategyHandler{Repo: store}
	strategyHandler.Register(engine)
	pipelineHandler := &handler.PipelineHandler{Pipeline: orchestrator, Repo: store}
	pipelineHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeErr := make(chan error, 1)
	go func() {
		pipeErr <- orchestrator.Run(ctx)
	}()

	cronRunner := cronrunner.New(logger, ctx)
	if _, err := cronRunner.Add("daily-ranking", cfg.Ranking.Cron, rank.RunOnce); err != nil {
		logger.Warn("cron register daily ranking failed", zap.Error(err))
	}
	if _, err := cronRunner.Add("intraday-ranking", cfg.Ranking.Refresh, func(ctx context.Context) error {
		_, err := rank.RunForDay(ctx, time.Now().UTC())
		return err
	}); err != nil {
		logger.Warn("cron register intraday ranking failed", zap.Error(err))
	}
	if _, err := cronRunner.Add("signal-retention", cfg.Retention.Cron, func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-cfg.Retention.MaxAge)
		n, err := store.DeleteSignalsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("expired signals deleted", zap.Int64("count", n))
		}
		return nil
	}); err != nil {
		logger.Warn("cron register retention failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	// Run returns once queued signals are drained or the drain timeout hits.
	if err := <-pipeErr; err != nil {
		logger.Warn("pipeline drain incomplete", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
