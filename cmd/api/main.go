package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/cache"
	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/config"
	"github.com/SmartDevNG/smartdev_api/internal/handler"
	"github.com/SmartDevNG/smartdev_api/internal/metrics"
	"github.com/SmartDevNG/smartdev_api/internal/middleware"
	"github.com/SmartDevNG/smartdev_api/internal/service"
	"github.com/SmartDevNG/smartdev_api/internal/sse"
	"github.com/SmartDevNG/smartdev_api/internal/worker"
)

// main is the application entrypoint for the SmartDev purchase API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting smartdev api")

	// 3. Catalog is built once at package init; touching it here fails fast
	cat := catalog.Default()
	log.Info().Int("services", len(cat.Services())).Msg("Catalog loaded")

	// 4. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Result fan-out: SSE hub, optional Redis publisher
	hub := sse.NewHub()
	notifiers := sse.MultiNotifier{sse.NewHubNotifier(hub)}

	var redisPinger handler.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		redisPinger = redisClient
		notifiers = append(notifiers, cache.NewTransactionPublisher(redisClient, cfg.Redis.TransactionChannel))
		log.Info().Str("channel", cfg.Redis.TransactionChannel).Msg("Redis transaction publisher enabled")
	} else {
		log.Warn().Msg("REDIS_HOST not set, transaction publisher disabled")
	}

	// 6. Metrics
	var purchaseMetrics *metrics.PurchaseMetrics
	if cfg.Metrics.Enabled {
		purchaseMetrics = metrics.NewPurchaseMetrics(prometheus.DefaultRegisterer, cfg.Env)
	}

	// 7. Services
	purchaseSvc := service.NewPurchaseService(cat, notifiers, purchaseMetrics, cfg.Purchase.ProcessingDelay)

	// 8. Initialize handlers
	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(purchaseSvc, redisPinger),
		Catalog:  handler.NewCatalogHandler(cat),
		Purchase: handler.NewPurchaseHandler(purchaseSvc),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 9. Initialize middleware
	sessionLimiter := middleware.NewSessionCreateLimiter(cfg.HTTP.SessionCreateLimit, time.Minute)

	// 10. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.HTTP.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, sessionLimiter)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 11. Start workers
	go worker.NewSessionSweepWorker(purchaseSvc, cfg.Purchase.SessionIdleTTL, cfg.Worker.SessionSweepInterval).Start(ctx)
	go sessionLimiter.Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// 16. Abandon whatever is still in flight
	purchaseSvc.Shutdown()
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Catalog  *handler.CatalogHandler
	Purchase *handler.PurchaseHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionLimiter *middleware.SessionCreateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	cat := router.Group("/v1/catalog")
	{
		cat.GET("/services", handlers.Catalog.GetServices)
		cat.GET("/meter-types", handlers.Catalog.GetMeterTypes)
		cat.GET("/:service/providers", handlers.Catalog.GetProviders)
		cat.GET("/:service/providers/:providerId/products", handlers.Catalog.GetProducts)
		cat.GET("/:service/denominations", handlers.Catalog.GetDenominations)
	}

	purchases := router.Group("/v1/purchases")
	{
		purchases.POST("", sessionLimiter.Middleware(), handlers.Purchase.CreatePurchase)
		purchases.GET("/:sessionId", handlers.Purchase.GetPurchase)
		purchases.DELETE("/:sessionId", handlers.Purchase.EndPurchase)

		purchases.PUT("/:sessionId/service", handlers.Purchase.SetService)
		purchases.PUT("/:sessionId/provider", handlers.Purchase.SetProvider)
		purchases.PUT("/:sessionId/product", handlers.Purchase.SetProduct)
		purchases.PUT("/:sessionId/denomination", handlers.Purchase.SelectDenomination)
		purchases.PUT("/:sessionId/custom-amount", handlers.Purchase.SetCustomAmount)
		purchases.PUT("/:sessionId/amount", handlers.Purchase.SetAmount)
		purchases.PUT("/:sessionId/recipient", handlers.Purchase.SetRecipient)
		purchases.PUT("/:sessionId/meter-type", handlers.Purchase.SetMeterType)
		purchases.PUT("/:sessionId/payment-method", handlers.Purchase.SetPaymentMethod)
		purchases.PUT("/:sessionId/secret", handlers.Purchase.SetSecret)

		purchases.POST("/:sessionId/submit", handlers.Purchase.Submit)
		purchases.POST("/:sessionId/acknowledge", handlers.Purchase.Acknowledge)
	}

	router.GET("/v1/transactions/stream", handlers.SSE.Stream)
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
