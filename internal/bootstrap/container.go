package bootstrap

import (
	"context"
	"log"

	"edugen-be/internal/config"
	"edugen-be/internal/controller"
	"edugen-be/internal/handler"
	"edugen-be/internal/pkg/logger"
	"edugen-be/internal/pkg/mailer"
	"edugen-be/internal/pkg/serverutils"
	"edugen-be/internal/repository/unitofwork"
	"edugen-be/internal/service"
	"edugen-be/internal/websocket"
	"edugen-be/pkg/embedding"
	"edugen-be/pkg/llm/factory"

	pktNats "edugen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FolderController     controller.IFolderController
	GenerationController controller.IGenerationController
	UserController       controller.IUserController
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	PaymentController    controller.IPaymentController
	PlanController       controller.PlanController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Watch Channel
	WatchHandler *handler.WatchHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmKey := cfg.Keys.OpenAI
	if cfg.Ai.LLMProvider == "gemini" {
		llmKey = cfg.Keys.GoogleGemini
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		llmKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub. The watch service builds the hierarchy snapshots the
	// hub pushes on subscribe and after every change.
	watchService := service.NewWatchService(uowFactory)
	wsLogger := logger.NewIsolatedLogger("logs/watch.log")
	wsHub := websocket.NewHub(rdb, watchService, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider, // Injected
	)

	// Plan gate guards generation endpoints. Built before the payment
	// service because the webhook invalidates its cache.
	planGate := serverutils.NewPlanGate()

	userService := service.NewUserService(uowFactory, natsPub)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	paymentService := service.NewPaymentService(uowFactory, natsPub, planGate, emailService)
	planGate.SetValidator(paymentService)

	folderService := service.NewFolderService(uowFactory, wsHub, natsPub, sysLogger)
	generationService := service.NewGenerationService(
		uowFactory,
		publisherService,
		llmProvider,       // Injected
		embeddingProvider, // Injected
		wsHub,
		natsPub,
		sysLogger,
	)

	planService := service.NewPlanService(uowFactory)

	// 3.5 Activity Feed (NATS -> WebSocket)
	activityService := service.NewActivityService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go activityService.Start()
	}

	// Handler
	watchHandler := handler.NewWatchHandler(wsHub, wsLogger)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		WatchHandler:         watchHandler,
		WebSocketHub:         wsHub,
		FolderController:     controller.NewFolderController(folderService),
		GenerationController: controller.NewGenerationController(generationService, planGate.Middleware()),
		UserController:       controller.NewUserController(userService),
		AuthController:       controller.NewAuthController(authService),
		OAuthController:      controller.NewOAuthController(oauthService),
		PaymentController:    controller.NewPaymentController(paymentService),
		PlanController:       controller.NewPlanController(planService),

		ConsumerService: consumerService,
	}
}
