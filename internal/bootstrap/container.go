package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"turkgpt/internal/config"
	"turkgpt/internal/controller"
	"turkgpt/internal/handler"
	"turkgpt/internal/pkg/logger"
	"turkgpt/internal/repository/implementation"
	"turkgpt/internal/service"
	"turkgpt/internal/websocket"
	"turkgpt/pkg/llm/factory"
	pktNats "turkgpt/pkg/nats"
	"turkgpt/pkg/store"
	storeFactory "turkgpt/pkg/store/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// Container owns every long lived handle of the API process. Nothing is
// global: handles are built in NewContainer and released by Close.
type Container struct {
	// Controllers
	ChatbotController  controller.IChatbotController
	SessionFeedHandler *handler.SessionFeedHandler

	// Background Services (started by Start)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	store       store.Store
	pubSub      *gochannel.GoChannel
	rdb         *redis.Client
	natsPub     *pktNats.Publisher
	auditLogger logger.ILogger
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	c := &Container{
		Logger:      sysLogger,
		auditLogger: auditLogger,
	}

	// 2. Document store
	storeDSN := cfg.Database.Connection
	if cfg.Database.Backend == storeFactory.BackendRedis && storeDSN == "" {
		storeDSN = cfg.App.RedisURL
	}
	docStore, err := storeFactory.NewStore(ctx, storeFactory.Config{
		Backend: cfg.Database.Backend,
		DSN:     storeDSN,
		Name:    cfg.Database.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("init document store: %w", err)
	}
	c.store = docStore
	log.Printf("[INFO] Using storage backend: %s", cfg.Database.Backend)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		APIKey:   cfg.Ai.LLMAPIKey,
		BaseURL:  cfg.LLMBaseURL(),
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Event Bus
	c.pubSub = NewEventBus()

	// 5. Optional infrastructure
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis, websocket fan-out stays local: %v", err)
			rdb.Close()
		} else {
			c.rdb = rdb
		}
	}

	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.natsPub = natsPub
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WSLogFilePath)
	c.WebSocketHub = websocket.NewHub(c.rdb, wsLogger)

	// 6. Services
	forwarders := map[string]service.EventForwarder{
		"websocket": c.WebSocketHub,
	}
	if c.natsPub != nil {
		forwarders["nats"] = c.natsPub
	}

	publisherService := service.NewPublisherService(service.ChatEventsTopic, c.pubSub)
	c.ConsumerService = service.NewConsumerService(
		c.pubSub,
		service.ChatEventsTopic,
		auditLogger,
		sysLogger,
		forwarders,
	)

	chatbotService := service.NewChatbotService(
		implementation.NewChatSessionRepository(docStore),
		implementation.NewChatMessageRepository(docStore),
		llmProvider,
		publisherService,
		sysLogger,
		service.WithLLMTimeout(cfg.Ai.LLMTimeout),
	)

	// 7. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.SessionFeedHandler = handler.NewSessionFeedHandler(c.WebSocketHub, wsLogger)

	return c, nil
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start event consumer: %w", err)
	}
	go c.WebSocketHub.Run(ctx)
	return nil
}

// Close releases every handle in reverse construction order.
func (c *Container) Close() error {
	var errs []error

	if c.pubSub != nil {
		errs = append(errs, c.pubSub.Close())
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		errs = append(errs, c.rdb.Close())
	}
	if c.store != nil {
		errs = append(errs, c.store.Close())
	}
	if c.auditLogger != nil {
		c.auditLogger.Sync()
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}

	return errors.Join(errs...)
}

// NewEventBus returns the in-process chat event bus. Publish waits for the
// subscriber's ack, so chat events reach the feed and the audit log in
// publish order.
func NewEventBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            256,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewStdLogger(false, false),
	)
}
