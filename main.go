package main

import (
	"log"

	api "github.com/gustavorubino/Insta-Replyer-sub002/cmd/api"
	authDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/delivery"
	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"
	authRepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/repository"
	authUsecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	knowledgeDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/delivery"
	knowledgedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	knowledgeRepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/repository"
	knowledgeUsecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/usecase"
	messageDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/delivery"
	messagedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	messageRepoPkg "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/repository"
	messageUsecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/usecase"
	settingsDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/delivery"
	settingsdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	settingsRepoPkg "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/repository"
	settingsUsecasePkg "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/usecase"
	syncDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/syncer/delivery"
	syncUsecasePkg "github.com/gustavorubino/Insta-Replyer-sub002/internal/syncer/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/ai"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/chroma"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/config"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/database"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/fcm"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/sse"
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
		&authdomain.FCMToken{},
		&messagedomain.InboundMessage{},
		&messagedomain.DraftResponse{},
		&knowledgedomain.ManualCorrection{},
		&knowledgedomain.MediaEntry{},
		&knowledgedomain.InteractionEntry{},
		&knowledgedomain.Guideline{},
		&settingsdomain.GlobalSettings{},
		&settingsdomain.UserSettings{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	messageRepo := messageRepoPkg.NewMessageRepository(db)
	draftRepo := messageRepoPkg.NewDraftRepository(db)
	correctionRepo := knowledgeRepo.NewCorrectionRepository(db)
	mediaRepo := knowledgeRepo.NewMediaRepository(db)
	interactionRepo := knowledgeRepo.NewInteractionRepository(db)
	guidelineRepo := knowledgeRepo.NewGuidelineRepository(db)
	settingsRepo := settingsRepoPkg.NewSettingsRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Instagram Graph API client
	igClient := instagram.NewClient()

	// AI service with dynamic config getters for runtime updates
	api.InitRuntimeConfig(cfg.OllamaBaseURL, cfg.OllamaModel)
	responder, err := ai.NewResponderWithDynamicConfig(ai.DynamicConfig{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiApiKey,
		GetOllamaBaseURL: api.GetRuntimeOllamaBaseURL,
		GetOllamaModel:   api.GetRuntimeOllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	// Chroma vector search (optional)
	var chromaClient *chroma.ChromaClient
	if cfg.ChromaAPIKey != "" {
		chromaClient, err = chroma.NewChromaClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Chroma client: %v. Similarity retrieval will not be available.", err)
			chromaClient = nil
		} else {
			log.Println("Chroma client initialized successfully")
		}
	} else {
		log.Println("Warning: CHROMA_API_KEY not set. Similarity retrieval will not be available.")
	}
	var correctionIndex messageUsecase.CorrectionIndex
	if chromaClient != nil {
		correctionIndex = chromaClient
	}

	// FCM push notifications (optional)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM client (push notifications disabled): %v", err)
			fcmClient = nil
		}
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, cfg, igClient)
	settingsUc := settingsUsecasePkg.NewSettingsUsecase(settingsRepo)
	knowledgeUc := knowledgeUsecase.NewKnowledgeUsecase(
		correctionRepo, mediaRepo, interactionRepo, guidelineRepo,
		settingsRepo, responder, chromaClient, cfg.AITimeout,
	)

	notifier := messageUsecase.NewWorkflowNotifier(fcmTokenRepo, fcmClient, sseManager)
	lookupUser := func(igUserID string) (string, error) {
		user, err := userRepo.FindByInstagramUserID(igUserID)
		if err != nil || user == nil {
			return "", err
		}
		return user.ID, nil
	}
	messageUc := messageUsecase.NewMessageUsecase(
		messageRepo, draftRepo,
		correctionRepo, mediaRepo, interactionRepo, guidelineRepo,
		settingsUc, responder, igClient, authUc, lookupUser,
		correctionIndex, notifier, cfg.AITimeout,
	)
	syncUc := syncUsecasePkg.NewSyncUsecase(authUc, igClient, mediaRepo, interactionRepo, messageUc, sseManager)

	// HTTP handlers
	authHandler := authDelivery.NewAuthHandler(authUc, fcmTokenRepo)
	messageHandler := messageDelivery.NewMessageHandler(messageUc, knowledgeUc)
	webhookHandler := messageDelivery.NewWebhookHandler(messageUc, cfg.InstagramVerifyToken)
	knowledgeHandler := knowledgeDelivery.NewKnowledgeHandler(knowledgeUc)
	settingsHandler := settingsDelivery.NewSettingsHandler(settingsUc)
	syncHandler := syncDelivery.NewSyncHandler(syncUc)

	handler := api.NewHandler(authUc, sseManager, cfg,
		authHandler, messageHandler, webhookHandler,
		knowledgeHandler, settingsHandler, syncHandler,
	)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
