package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/adapter/ai/elevenlabs"
	"github.com/seu-repo/vox-agenda/internal/adapter/ai/openai"
	"github.com/seu-repo/vox-agenda/internal/adapter/calendar/gcal"
	"github.com/seu-repo/vox-agenda/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/vox-agenda/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vox-agenda/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/vox-agenda/internal/adapter/websocket"
	"github.com/seu-repo/vox-agenda/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/vox-agenda/internal/observability/telemetry"
	"github.com/seu-repo/vox-agenda/internal/service/conversation"
	"github.com/seu-repo/vox-agenda/internal/service/scheduler"
	"github.com/seu-repo/vox-agenda/pkg/config"
)

const (
	serviceName    = "vox-agenda"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Vox Agenda",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Overlay credentials from Vault when configured
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if key, err := secrets.GetOpenAIAPIKey(); err == nil {
			cfg.OpenAI.APIKey = key
		}
		if key, err := secrets.GetElevenLabsAPIKey(); err == nil {
			cfg.ElevenLabs.APIKey = key
		}
		if token, err := secrets.GetCalendarToken(); err == nil {
			cfg.GoogleCalendar.TokenJSON = token
		}
	}

	// 5. Initialize Calendar Client and Scheduler
	calendarClient := gcal.NewClient(cfg.GoogleCalendar, logger)
	schedulerService := scheduler.NewService(calendarClient, logger)

	// 6. Initialize OpenAI Chat Client (breaker-protected)
	openaiHTTP := circuitbreaker.NewHTTPClient("openai",
		&http.Client{Timeout: cfg.OpenAI.Timeout},
		cfg.CircuitBreaker, logger)
	chatClient := openai.NewClient(cfg.OpenAI, openaiHTTP, logger)

	// 7. Initialize Conversation Service
	conversationService := conversation.NewService(chatClient, schedulerService, cfg.Session.TurnTimeout, logger)

	// 8. Initialize ElevenLabs Synthesis Stream Dialer
	speechDialer := elevenlabs.NewStreamClient(cfg.ElevenLabs, logger)

	// 9. Initialize Voice Session Handler
	voiceSessionHandler := wsAdapter.NewVoiceSessionHandler(conversationService, speechDialer, logger)

	// 10. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	// Health Check Endpoints
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			// Adapt net/http handler to fasthttp for Fiber
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// Static frontend assets
	app.Static("/static", cfg.App.StaticDir)

	// API v1 Routes
	v1 := app.Group("/api/v1")

	scheduleHandler := handlers.NewScheduleHandler(schedulerService, logger)
	v1.Post("/schedule", scheduleHandler.Create)

	// Voice streaming WebSocket
	wsAdapter.SetupVoiceRoutes(app, voiceSessionHandler)

	// 11. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
