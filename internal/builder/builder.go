package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quillhq/quill-backend/internal/api"
	messageapi "github.com/quillhq/quill-backend/internal/api/message"
	"github.com/quillhq/quill-backend/internal/auth"
	"github.com/quillhq/quill-backend/internal/config"
	"github.com/quillhq/quill-backend/internal/integration/embedding"
	"github.com/quillhq/quill-backend/internal/integration/llm"
	"github.com/quillhq/quill-backend/internal/integration/vectorstore"
	"github.com/quillhq/quill-backend/internal/pkg/validator"
	"github.com/quillhq/quill-backend/internal/repository"
	"github.com/quillhq/quill-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	fileRepo := repository.NewFilePostgres(db)
	messageRepo := repository.NewMessagePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var llmConnector chat.LLMConnector
	var embeddingConnector chat.EmbeddingConnector
	var vectorConnector chat.VectorSearcher
	var authn auth.Authenticator

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector()
		embeddingConnector = embedding.NewMockConnector()
		vectorConnector = vectorstore.NewMockConnector()
		authn = auth.NewMockAuthenticator(cfg.AuthCfg.MockUserID)
	} else {
		logger.Info("Using real connectors for external services")
		llmConnector = llm.NewConnector(cfg.OpenAICfg)
		embeddingConnector = embedding.NewConnector(cfg.OpenAICfg)
		vectorConnector, err = vectorstore.NewConnector(cfg.VectorStoreCfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("setup vector store: %w", err)
		}
		authn = auth.NewSessionAuthenticator(cfg.AuthCfg)
	}

	// Initialize validators
	reqValidator := validator.New()

	// Initialize use cases
	chatUC := chat.NewUsecase(
		fileRepo,
		messageRepo,
		llmConnector,
		embeddingConnector,
		vectorConnector,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	messageHandler := messageapi.NewHandler(chatUC, reqValidator)

	// Setup router
	router := api.SetupRouter(messageHandler, authn, cfg.CORSAllowedOrigin, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
