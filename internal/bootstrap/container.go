package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/internal/controller"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/memory"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/internal/service"
	"github.com/iZhuoxx/AI-web/internal/websocket"
	"github.com/iZhuoxx/AI-web/pkg/ai/registry"
	"github.com/iZhuoxx/AI-web/pkg/llm/openai"
	pktNats "github.com/iZhuoxx/AI-web/pkg/nats"
	"github.com/iZhuoxx/AI-web/pkg/storage/s3"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Download urls are dropped from the cache this long before they expire.
const downloadURLMargin = time.Minute

type Container struct {
	Logger logger.ILogger
	// AuthService also answers the session middleware's active-user check.
	AuthService service.IAuthService

	// Controllers
	AuthController           controller.IAuthController
	NotebookController       controller.INotebookController
	NotebookFolderController controller.INotebookFolderController
	AttachmentController     controller.IAttachmentController
	FlashcardController      controller.IFlashcardController
	QuizController           controller.IQuizController
	MindMapController        controller.IMindMapController
	AudioController          controller.IAudioController
	AiConfigController       controller.IAiConfigController

	// Background workers, started by Start
	ConsumerService service.IConsumerService
	SyncService     *service.SyncService
	WebSocketHub    *websocket.Hub

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
	pubSub  *gochannel.GoChannel
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	syncLogger := logger.NewIsolatedLogger(cfg.App.SyncLogFilePath)

	reg, err := registry.Load(cfg.OpenAI.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load ai registry: %w", err)
	}

	objectStorage, err := s3.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	openaiProvider := openai.NewProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Timeout)
	urlCache := memory.NewDownloadURLCache(downloadURLMargin)

	synchronizer := aggregate.NewMembershipSynchronizer()
	coordinator := aggregate.NewNotebookCoordinator(aggregate.NewSequenceAllocator(), synchronizer)

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	// NATS is optional; without it events go straight to the hub.
	natsPub, err := pktNats.NewPublisher(cfg.Messaging.NatsURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		natsPub = nil
	}
	var natsSub *pktNats.Subscriber
	if natsPub != nil {
		natsSub, err = pktNats.NewSubscriber(cfg.Messaging.NatsURL, syncLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		}
	}

	// Redis only fans websocket events out across instances.
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.Messaging.RedisURL)
	if err != nil {
		opt = &redis.Options{Addr: cfg.Messaging.RedisURL}
	}
	rdb = redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Redis unavailable, websocket fanout is local only", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		rdb = nil
	}

	wsHub := websocket.NewHub(rdb, syncLogger)

	var relay service.EventRelay
	if natsPub != nil {
		relay = natsPub
	}
	publisherService := service.NewPublisherService(pubSub, cfg.Messaging.EventTopic, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Messaging.EventTopic, relay, wsHub, syncLogger)

	var syncService *service.SyncService
	if natsSub != nil {
		syncService = service.NewSyncService(natsSub, wsHub, syncLogger)
	}

	// 3. Services
	authService := service.NewAuthService(uowFactory, sysLogger)
	notebookService := service.NewNotebookService(
		uowFactory,
		coordinator,
		synchronizer,
		objectStorage,
		urlCache,
		openaiProvider,
		reg,
		publisherService,
		sysLogger,
	)
	folderService := service.NewNotebookFolderService(uowFactory, synchronizer, publisherService)
	attachmentService := service.NewAttachmentService(
		uowFactory,
		objectStorage,
		openaiProvider,
		urlCache,
		cfg.Storage.PresignTTL,
		publisherService,
		sysLogger,
	)
	flashcardService := service.NewFlashcardService(uowFactory, synchronizer, publisherService)
	quizService := service.NewQuizService(uowFactory, synchronizer, openaiProvider, reg, publisherService, sysLogger)
	mindMapService := service.NewMindMapService(uowFactory, publisherService)
	generationService := service.NewGenerationService(uowFactory, synchronizer, openaiProvider, reg, publisherService, sysLogger)
	audioService := service.NewAudioService(uowFactory, openaiProvider, reg, publisherService, sysLogger)
	aiConfigService := service.NewAiConfigService(reg)

	// 4. Controllers
	return &Container{
		Logger:      sysLogger,
		AuthService: authService,

		AuthController:           controller.NewAuthController(authService, cfg.Auth),
		NotebookController:       controller.NewNotebookController(notebookService, generationService),
		NotebookFolderController: controller.NewNotebookFolderController(folderService),
		AttachmentController:     controller.NewAttachmentController(attachmentService),
		FlashcardController:      controller.NewFlashcardController(flashcardService),
		QuizController:           controller.NewQuizController(quizService),
		MindMapController:        controller.NewMindMapController(mindMapService),
		AudioController:          controller.NewAudioController(audioService),
		AiConfigController:       controller.NewAiConfigController(aiConfigService),

		ConsumerService: consumerService,
		SyncService:     syncService,
		WebSocketHub:    wsHub,

		natsPub: natsPub,
		natsSub: natsSub,
		rdb:     rdb,
		pubSub:  pubSub,
	}, nil
}

// Start runs the hub and the event workers until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	if c.SyncService != nil {
		if err := c.SyncService.Start(ctx); err != nil {
			return fmt.Errorf("start sync service: %w", err)
		}
	}
	return nil
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.pubSub.Close()
	_ = c.Logger.Sync()
}
