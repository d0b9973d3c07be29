package bootstrap

import (
	"context"
	"log"
	"time"

	"urbanmind-be/internal/config"
	"urbanmind-be/internal/controller"
	"urbanmind-be/internal/handler"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/internal/repository/memory"
	"urbanmind-be/internal/service"
	"urbanmind-be/internal/websocket"
	"urbanmind-be/pkg/analysis"
	"urbanmind-be/pkg/events"

	pktNats "urbanmind-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	CatalogController      controller.ICatalogController

	// WebSockets
	SessionStreamHandler *handler.SessionStreamHandler
	WebSocketHub         *websocket.Hub

	// Background Services (started by StartBackground)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	ConversationService service.IConversationService
	Logger              logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	return NewContainerWithLogger(cfg, sysLogger)
}

func NewContainerWithLogger(cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 2. In-process Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	// NATS (optional)
	var eventPub events.Publisher = events.NopPublisher{}
	if cfg.Messaging.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Messaging.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPub = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.Messaging.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.AuditService = service.NewAuditService(natsSub, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// Redis (optional)
	var rdb *redis.Client
	if cfg.Messaging.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Messaging.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Messaging.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// WebSocket Hub
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)

	// 4. Services
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL, 10*time.Minute)
	analyzer := analysis.NewSimulatedAnalyzer(cfg.Analysis.Delay)
	changeFeed := service.NewChangeFeed(pubSub, service.ConversationChangedTopic, sysLogger)

	c.ConversationService = service.NewConversationService(sessionRepo, analyzer, changeFeed, eventPub, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.ConversationChangedTopic,
		c.WebSocketHub,
		eventPub,
		sysLogger,
	)

	// 5. Controllers
	c.ConversationController = controller.NewConversationController(c.ConversationService)
	c.CatalogController = controller.NewCatalogController(c.ConversationService)
	c.SessionStreamHandler = handler.NewSessionStreamHandler(c.ConversationService, c.WebSocketHub, sysLogger)

	return c
}

// StartBackground runs the hub, the change relay and, when NATS is
// configured, the audit subscriber. They stop when ctx is cancelled.
func (c *Container) StartBackground(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.AuditService != nil {
		if err := c.AuditService.Start(ctx); err != nil {
			c.Logger.Warn("Container", "Audit subscriber not started", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close shuts sessions down first so their last changes still reach the bus.
func (c *Container) Close() {
	c.ConversationService.Shutdown()
	c.WebSocketHub.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
