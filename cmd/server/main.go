package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"papertrade/internal/auth"
	"papertrade/internal/config"
	cronrunner "papertrade/internal/cron"
	"papertrade/internal/db"
	"papertrade/internal/handler"
	"papertrade/internal/logger"
	"papertrade/internal/market"
	"papertrade/internal/quotes"
	gormrepository "papertrade/internal/repository/gorm"
	"papertrade/internal/service"
	"papertrade/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("PT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PT_ENV_ONLY"); envOnlyRaw != "" {
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

	var sessions session.Store
	if cfg.Redis.Addr != "" {
		sessions = session.NewRedisStore(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("sessions backed by redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryStore()
		logger.Warn("redis addr not set, sessions held in process memory")
	}

	authSvc := &auth.Service{
		Repo:       store,
		Sessions:   sessions,
		SessionTTL: cfg.Session.TTL,
	}

	rules := market.NewRules(cfg.Market.Suffix)
	quoteClient := quotes.NewClient(&http.Client{Timeout: cfg.Quotes.Timeout}, cfg.Quotes.BaseURL)
	ledger := service.NewLedger(store, quoteClient, rules, logger, cfg.Valuation.QuoteTimeout)
	valuator := &service.PortfolioValuator{
		Repo:         store,
		Quotes:       quoteClient,
		Rules:        rules,
		Logger:       logger,
		QuoteTimeout: cfg.Valuation.QuoteTimeout,
	}
	snapshotSvc := &service.SnapshotService{
		Repo:     store,
		Valuator: valuator,
		Logger:   logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)

	authed := engine.Group("/api")
	authed.Use(auth.RequireAuth(authSvc, cfg.Session.CookieName))

	authHandler := &handler.AuthHandler{
		Service:    authSvc,
		CookieName: cfg.Session.CookieName,
		Logger:     logger,
	}
	authHandler.Register(engine, authed)
	quoteHandler := &handler.QuoteHandler{Source: quoteClient, Rules: rules, Logger: logger}
	quoteHandler.Register(authed)
	tradeHandler := &handler.TradeHandler{Ledger: ledger, Logger: logger}
	tradeHandler.Register(authed)
	portfolioHandler := &handler.PortfolioHandler{Valuator: valuator, Repo: store, Logger: logger}
	portfolioHandler.Register(authed)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add("portfolio_snapshot", cfg.Cron.PortfolioSnapshot, snapshotSvc.RunOnce)
		if err != nil {
			logger.Warn("cron register portfolio snapshot failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
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
