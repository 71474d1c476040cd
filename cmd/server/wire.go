//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chat-api/internal/config"
	"chat-api/internal/domain/chat"
	"chat-api/internal/domain/identity"
	"chat-api/internal/domain/llm"
	"chat-api/internal/infrastructure/auth"
	"chat-api/internal/infrastructure/database"
	identityclient "chat-api/internal/infrastructure/identity"
	"chat-api/internal/infrastructure/llmprovider"
	"chat-api/internal/infrastructure/logger"
	chatrepo "chat-api/internal/infrastructure/repository/chat"
	"chat-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	chatrepo.NewPostgresRepository,
	wire.Bind(new(chat.Store), new(*chatrepo.PostgresRepository)),
	newGeneratorClient,
	wire.Bind(new(llm.Generator), new(*llmprovider.Client)),
	newIdentityClient,
	wire.Bind(new(identity.Provider), new(*identityclient.Client)),
	chat.NewService,
	identity.NewService,
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newGeneratorClient(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.GenAIAPIURL, cfg.GenAIAPIKey, cfg.GenAIModel, cfg.GenAITimeout)
}

func newIdentityClient(cfg *config.Config) *identityclient.Client {
	return identityclient.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
}
