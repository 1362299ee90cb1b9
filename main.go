package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/advice"
	"github.com/privscore/privscore/pkg/config"
	"github.com/privscore/privscore/pkg/handlers"
	"github.com/privscore/privscore/pkg/inference"
	"github.com/privscore/privscore/pkg/redis"
	"github.com/privscore/privscore/pkg/services"
	"github.com/privscore/privscore/pkg/websocket"
)

func main() {
	log.Println("🚀 Starting PrivScore server")

	if err := godotenv.Load(); err != nil {
		log.Println("💡 No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	log.Printf("🔌 Connecting to Redis at %s...", cfg.RedisAddr)
	redisClient, err := redis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cancel()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer redisClient.Close()

	bank, err := services.LoadBank(cfg.QuestionsFile)
	if err != nil {
		log.Fatalf("❌ Error loading questions: %v", err)
	}
	log.Printf("📚 %d questions in %d categories", bank.Len(), len(bank.Categories()))

	hub := websocket.NewHub()
	go hub.Run()

	httpClient := &fasthttp.Client{
		Name:                inference.UserAgent,
		MaxConnsPerHost:     32,
		MaxIdleConnDuration: time.Minute,
	}
	advisor := advice.NewService(cfg.Advice, advice.WithHTTPClient(httpClient))
	if cfg.AdviceConfigToken == "" {
		log.Println("🔒 AI_RUNTIME_CONFIG_TOKEN not set, POST /api/advice/config is disabled")
	}

	// one background run may try every advice model once
	budget := time.Duration(len(cfg.Advice.AdviceModels))*cfg.Advice.AttemptTimeout + 5*time.Second
	explainBudget := time.Duration(len(cfg.Advice.ExplanationModels))*cfg.Advice.AttemptTimeout + 5*time.Second

	questionService := services.NewQuestionService(bank)
	sessionService := services.NewSessionService(redisClient, bank, cfg.SessionTTL)
	resultsService := services.NewResultsService(bank)
	adviceService := services.NewAdviceService(advisor, sessionService, resultsService, redisClient, hub, cfg.SessionTTL, budget)

	proxyClient := inference.NewClient(cfg.Advice.BaseURL, cfg.Advice.APIKey, inference.WithHTTPClient(httpClient))

	router := &handlers.Router{
		Questions:      handlers.NewQuestionHandler(questionService, adviceService, explainBudget),
		Sessions:       handlers.NewSessionHandler(sessionService, resultsService, adviceService),
		Advice:         handlers.NewAdviceHandler(adviceService, sessionService, hub, cfg.AllowedOrigins, cfg.AdviceConfigToken, cfg.Advice.AttemptTimeout+time.Second),
		Proxy:          handlers.NewProxyHandler(proxyClient, cfg.MaxRequestBodyBytes, cfg.Advice.AttemptTimeout),
		Health:         handlers.NewHealthHandler(redisClient, advisor),
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := &fasthttp.Server{
		Handler:            router.Handle,
		Name:               "PrivScore",
		MaxRequestBodySize: cfg.MaxRequestBodyBytes,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        2 * time.Minute,
	}

	go func() {
		log.Printf("🛡️ PrivScore listening on %s", cfg.ServerAddr)
		log.Printf("🔧 API Health: http://localhost%s/api/health", cfg.ServerAddr)
		if err := server.ListenAndServe(cfg.ServerAddr); err != nil {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	hub.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), explainBudget)
	defer shutdownCancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("⚠️ Error during shutdown: %v", err)
	}
	adviceService.Wait()
	log.Println("👋 Server stopped")
}
