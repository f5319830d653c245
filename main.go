package main

import (
	"log"

	api "jobmail-backend/cmd/api"
	authdomain "jobmail-backend/internal/auth/domain"
	authRepo "jobmail-backend/internal/auth/repository"
	authUsecase "jobmail-backend/internal/auth/usecase"
	eventdomain "jobmail-backend/internal/event/domain"
	eventRepo "jobmail-backend/internal/event/repository"
	eventUsecase "jobmail-backend/internal/event/usecase"
	"jobmail-backend/pkg/config"
	"jobmail-backend/pkg/database"
	"jobmail-backend/pkg/gmail"
	"jobmail-backend/pkg/imap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.GmailToken{},
		&authdomain.IMAPAccount{},
		&eventdomain.InboundMessage{},
		&eventdomain.Event{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	tokenRepo := authRepo.NewTokenRepository(db)
	messageRepo := eventRepo.NewMessageRepository(db)
	eventRepository := eventRepo.NewEventRepository(db)

	// Initialize mail provider services
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	imapService := imap.NewService()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	mailAuthInstance := authUsecase.NewMailAuthUsecase(tokenRepo, gmailService, cfg)

	mailSource := eventUsecase.NewProviderMailSource(tokenRepo, gmailService, imapService)

	policy := eventUsecase.PolicyActionableOnly
	if cfg.SyncCreateAll {
		policy = eventUsecase.PolicyAllMessages
	}
	syncUsecaseInstance := eventUsecase.NewSyncUsecase(messageRepo, eventRepository, mailSource, cfg.Location(), policy, cfg.SyncFetchLimit)
	eventUsecaseInstance := eventUsecase.NewEventUsecase(eventRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, mailAuthInstance, syncUsecaseInstance, eventUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
