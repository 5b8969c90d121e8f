package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/agent"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/handler"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/config"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/middleware"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/pubsub"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/repository"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full application: database pool, collaborator clients, the
// agent with its tool registry, repositories, services, handlers, and
// middleware. The returned pool is owned by the caller.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	ctx := context.Background()

	// 1. Optionally pull collaborator credentials from Secret Manager before
	// validating the config.
	if cfg.GCPProjectID != "" {
		secrets, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Warn().Err(err).Msg("Secret Manager unavailable, relying on environment")
		} else {
			service.LoadCollaboratorSecrets(ctx, cfg, secrets, logger)
			if err := secrets.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close Secret Manager client")
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// 2. Open DB connection pool and bootstrap the schema.
	pool, err := pgxpool.New(ctx, cfg.DBConnectionString)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Initialize collaborator clients and the escalation alert publisher
	var alerts pubsub.Publisher
	if cfg.GCPProjectID != "" {
		publisher, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Warn().Err(err).Msg("Alert publisher unavailable, escalation alerts disabled")
		} else {
			alerts = publisher
		}
	}
	groq := service.NewGroqClient(cfg)
	emergency := service.NewEmergencyCallService(cfg, alerts, logger)

	// 5. Build the tool registry and the agent
	registry, err := agent.NewRegistry(
		agent.NewSpecialistTool(groq),
		agent.NewEmergencyCallTool(emergency, logger),
		agent.NewTherapistLookupTool(),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	agentRunner := agent.New(groq, registry, cfg.AgentMaxSteps, logger)

	// 6. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	chatRepo := repository.NewChatRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)

	authSvc := service.NewAuthService(userRepo, usageRepo, cfg.JWTSecret, logger)
	usageSvc := service.NewUsageService(usageRepo, logger)
	chatSvc := service.NewChatService(chatRepo, usageSvc, agentRunner, logger)

	authHandler := handler.NewAuthHandler(authSvc, validate)
	chatHandler := handler.NewChatHandler(chatSvc, validate, logger)
	usageHandler := handler.NewUsageHandler(usageSvc)

	// 7. Initialize middleware and routes
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	mux := http.NewServeMux()
	authHandler.RegisterRoutes(mux, authMiddleware)
	chatHandler.RegisterRoutes(mux, authMiddleware)
	usageHandler.RegisterRoutes(mux, authMiddleware)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// 8. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// The agent round trip is the slow path; bound every request so a stuck
	// inference call surfaces as a collaborator failure instead of hanging.
	timeout := time.Duration(cfg.AgentRequestTimeout) * time.Second
	h := http.TimeoutHandler(c.Handler(mux), timeout, "request timed out")

	return middleware.LoggerMiddleware(logger, h), pool, nil
}
