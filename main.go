package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/subosito/gotenv"

	"github.com/prepgrid/interview-practice/adapters/broker"
	"github.com/prepgrid/interview-practice/adapters/hasher"
	httpadapter "github.com/prepgrid/interview-practice/adapters/http"
	"github.com/prepgrid/interview-practice/adapters/llm"
	"github.com/prepgrid/interview-practice/adapters/websocket"
	"github.com/prepgrid/interview-practice/config"
	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/usecase"
)

func main() {
	gotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// ConfigError is the one failure that prevents any session from
		// starting; surface it verbatim and stop.
		log.Fatal(err)
	}

	ctx := context.Background()

	generator, err := buildGenerator(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	messageBroker := broker.NewChannelBroker()
	defer messageBroker.Close()

	svc := usecase.NewInterviewService(generator, messageBroker, hasher.New(), cfg.EscalationThreshold)
	if err := usecase.StartTranscriptLogger(ctx, messageBroker); err != nil {
		log.Fatal(err)
	}

	registry := httpadapter.NewRegistry()
	handler := httpadapter.NewInterviewHandler(svc, registry, cfg.JWTSecret, cfg.APIKey, cfg.APISecret)

	server := websocket.NewServer(svc)
	go server.RunWebsocketHub()

	e := echo.New()

	// Security middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20))) // 20 requests per minute
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // In production, specify exact origins
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"X-API-Key",
			"X-API-Secret",
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(middleware.BodyLimit("64KB"))

	// JWT auth for WebSocket (same as HTTP)
	wsGroup := e.Group("/ws")
	wsGroup.Use(handler.JWTMiddleware)
	wsGroup.GET("", server.Handler)

	// HTTP API routes
	api := e.Group("/api/v1")

	// Public endpoints (no auth required)
	api.GET("/health", handler.HealthCheck)
	api.POST("/auth/token", handler.GenerateJWT)

	// Interview endpoints (JWT auth required)
	interview := api.Group("/interview")
	interview.Use(handler.JWTMiddleware)
	interview.Use(handler.RateLimitMiddleware)

	interview.POST("/start", handler.StartInterview)
	interview.POST("/:id/answer", handler.SubmitAnswer)
	interview.POST("/:id/end", handler.EndInterview)
	interview.GET("/:id/summary", handler.Summary)

	log.Println("Starting server on :" + cfg.Port)
	log.Println("Available endpoints:")
	log.Println("  GET  /api/v1/health                 - Health check")
	log.Println("  POST /api/v1/auth/token             - Get JWT token")
	log.Println("  POST /api/v1/interview/start        - Start interview (JWT required)")
	log.Println("  POST /api/v1/interview/:id/answer   - Submit answer (JWT required)")
	log.Println("  POST /api/v1/interview/:id/end      - End interview (JWT required)")
	log.Println("  GET  /api/v1/interview/:id/summary  - Closing summary (JWT required)")
	log.Println("  GET  /ws                            - WebSocket chat (JWT required)")
	log.Fatal(e.Start(":" + cfg.Port))
}

// buildGenerator selects the provider stack: Groq behind an SDK transport
// with a raw-HTTP fallback, or Gemini as a single-transport alternate.
func buildGenerator(ctx context.Context, cfg *config.Config) (domain.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		primary := llm.NewGroqSDKClient(cfg.GroqAPIKey, cfg.GroqModel)
		secondary := llm.NewGroqHTTPClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqHTTPURL)
		return llm.NewFallbackClient(primary, secondary), nil
	}
}
