package bootstrap

import (
	"context"
	"errors"
	"log"

	"hdt-be/internal/config"
	"hdt-be/internal/controller"
	"hdt-be/internal/handler"
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/repository/memory"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/internal/service"
	"hdt-be/internal/websocket"
	"hdt-be/pkg/conversation"
	"hdt-be/pkg/events"
	"hdt-be/pkg/llm"
	"hdt-be/pkg/llm/factory"
	"hdt-be/pkg/orchestrator"
	"hdt-be/pkg/prompt"
	"hdt-be/pkg/telemetry"

	pktNats "hdt-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HDTController        controller.IHDTController
	SessionController    controller.ISessionController
	MonitoringController controller.IMonitoringController
	TaskController       controller.ITaskController
	ChatController       controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
	Broadcaster   *telemetry.Broadcaster

	// Core
	DB           *gorm.DB
	Backend      llm.Backend
	Registry     *conversation.Registry
	Orchestrator *orchestrator.Orchestrator
	Logger       logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{DB: db, Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: int64(cfg.Telemetry.SubscriberBuffer)},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Text generation capability. Absent credentials only degrade tasks.
	backend, err := factory.NewBackend(context.Background(), factory.Settings{
		Provider:       cfg.Ai.LLMProvider,
		Model:          cfg.Ai.LLMModel,
		GeminiAPIKey:   cfg.Keys.GoogleGemini,
		OllamaBaseURL:  cfg.Ai.OllamaBaseURL,
		HuggingFaceKey: cfg.Keys.HuggingFace,
		HuggingFaceURL: cfg.Ai.HuggingFaceURL,
	})
	switch {
	case errors.Is(err, factory.ErrNotConfigured):
		log.Printf("[WARN] LLM backend not configured, tasks will fail: %v", err)
		sysLogger.Warn("BOOTSTRAP", "Running without a text generation backend", map[string]interface{}{"error": err.Error()})
	case err != nil:
		log.Fatalf("[FATAL] Failed to initialize LLM backend: %v", err)
	default:
		log.Printf("[INFO] Using LLM backend: %s", backend.Name())
		c.Backend = backend
	}

	// 4. Infrastructure
	// NATS
	var publisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	} else {
		c.closers = append(c.closers, natsSub.Close)
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
		log.Printf("[WARN] Failed to connect to Redis, streams stay on this instance: %v", err)
		rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, cfg.App.InstanceID, wsLogger)

	// 5. Core
	c.Broadcaster = telemetry.NewBroadcaster(cfg.Telemetry.SubscriberBuffer, wsLogger)
	telemetryPublisher := service.NewTelemetryPublisher(cfg.Telemetry.PersistTopic, pubSub)
	aggregator := telemetry.NewAggregator(c.Broadcaster, telemetryPublisher, cfg.Orchestrator.SummaryRetention, sysLogger)
	c.Registry = conversation.NewRegistry(c.Backend, sysLogger)

	// 6. Services
	sessionService := service.NewSessionService(
		uowFactory,
		c.Registry,
		aggregator,
		memory.NewSessionRepository(),
		publisher,
		sysLogger,
	)
	taskRecorder := service.NewTaskRecorder(uowFactory, publisher, sysLogger)

	c.Orchestrator = orchestrator.New(
		c.Registry,
		prompt.NewCompositor(cfg.Orchestrator.CodeGenerationMaxLines),
		orchestrator.Config{
			CallTimeout:        cfg.Orchestrator.ModelCallTimeout,
			MaxConcurrentCalls: int64(cfg.Orchestrator.MaxConcurrentCalls),
		},
		sysLogger,
		orchestrator.WithSessionDirectory(sessionService),
		orchestrator.WithRecorder(taskRecorder),
		orchestrator.WithNotifier(taskRecorder), // Task events reach observers via NATS
	)

	profileService := service.NewProfileService(uowFactory)
	monitoringService := service.NewMonitoringService(uowFactory, sessionService, aggregator)
	taskService := service.NewTaskService(uowFactory, sessionService, c.Orchestrator)
	chatService := service.NewChatService(uowFactory, sessionService, c.Orchestrator, sysLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Telemetry.PersistTopic, uowFactory, sysLogger)
	c.NotificationService = service.NewNotificationService(natsSub, c.WebSocketHub, cfg.App.InstanceID, wsLogger) // Hub implements NotificationDelivery

	// 7. Controllers
	c.HDTController = controller.NewHDTController(profileService)
	c.SessionController = controller.NewSessionController(sessionService)
	c.MonitoringController = controller.NewMonitoringController(monitoringService)
	c.TaskController = controller.NewTaskController(taskService)
	c.ChatController = controller.NewChatController(chatService)
	c.StreamHandler = handler.NewStreamHandler(sessionService, c.WebSocketHub, cfg.App.JWTSecret, wsLogger)

	return c
}

// Close releases the broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
