package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/govscout/govscout/src/cache"
	"github.com/govscout/govscout/src/config"
	"github.com/govscout/govscout/src/documents"
	"github.com/govscout/govscout/src/embedding"
	"github.com/govscout/govscout/src/gateway"
	"github.com/govscout/govscout/src/handlers"
	"github.com/govscout/govscout/src/middleware"
	"github.com/govscout/govscout/src/models"
	"github.com/govscout/govscout/src/ratelimit"
	"github.com/govscout/govscout/src/sam"
	"github.com/govscout/govscout/src/search"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ Loaded .env file")
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("✓ Config loaded successfully")

	// Redis is optional: without an address the process falls back to the
	// in-process cache with its own sweeper.
	var resultCache models.CacheStore
	if cfg.Redis.Address != "" {
		redisCache, err := cache.NewRedisCache(&cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		resultCache = redisCache
		log.Printf("✓ Redis result cache connected (TTL: %s)", cfg.Cache.TTL)
	} else {
		resultCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.SweepInterval)
		log.Printf("✓ In-memory result cache ready (TTL: %s)", cfg.Cache.TTL)
	}
	defer resultCache.Close()

	chatLimiter := ratelimit.NewLimiter(cfg.RateLimit.Chat.MaxRequests, cfg.RateLimit.Chat.Window)
	searchLimiter := ratelimit.NewLimiter(cfg.RateLimit.Search.MaxRequests, cfg.RateLimit.Search.Window)
	log.Printf("✓ Rate limiters ready (chat: %d/%s, search: %d/%s)",
		cfg.RateLimit.Chat.MaxRequests, cfg.RateLimit.Chat.Window,
		cfg.RateLimit.Search.MaxRequests, cfg.RateLimit.Search.Window)

	embedder := embedding.NewClient(&cfg.Embedding)
	log.Printf("✓ Embedding client ready")

	chatGateway := gateway.New(&cfg.Providers, chatLimiter, cfg.RateLimit.Chat.Window)
	log.Printf("✓ Chat gateway ready (anthropic style: %s)", cfg.Providers.AnthropicStyle)

	samClient := sam.NewClient(cfg.Sam.BaseURL)
	orchestrator := search.NewOrchestrator(samClient, embedder, resultCache, searchLimiter, cfg.RateLimit.Search.Window)
	log.Printf("✓ Search orchestrator ready")

	documentService := documents.NewService(embedder)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.CallerIdentity())

	chatHandler := handlers.NewChatHandler(chatGateway)
	searchHandler := handlers.NewSearchHandler(orchestrator, cfg.Sam.APIKey)
	documentHandler := handlers.NewDocumentHandler(documentService)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", chatHandler.HealthCheck)
		v1.POST("/chat", chatHandler.HandleChat)
		v1.POST("/search", searchHandler.HandleSearch)
		v1.POST("/documents/embed", documentHandler.HandleEmbedDocument)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Printf("🚀 GovScout Engine running on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func corsMiddleware() gin.HandlerFunc {
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	var allowedOrigins []string

	if allowedOriginsEnv != "" {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	} else {
		// Default for local development
		allowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Allow requests without Origin header (health checks, curl)
		if origin == "" {
			c.Next()
			return
		}

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		if !allowed {
			c.AbortWithStatus(403)
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
