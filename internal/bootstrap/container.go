package bootstrap

import (
	"context"
	"log"

	"marketplace-be/internal/config"
	"marketplace-be/internal/controller"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/repository/memory"
	"marketplace-be/internal/repository/redisstore"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/internal/service"
	"marketplace-be/pkg/cart/merge"
	"marketplace-be/pkg/payment"
	"marketplace-be/pkg/refund"

	pktNats "marketplace-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CartController   controller.ICartController
	RefundController controller.IRefundController

	// Background Services (Exposed for main.go to run)
	ReconcileService service.IReconcileService
	EventFeedService service.IEventFeedService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.OpsEmail,
	)

	// 2. Event Buses
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

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

	// 3. Domain Components
	sessionRepo := memory.NewSessionRepository()
	scopeBindings := redisstore.NewScopeBindingRepository(rdb)

	processor := payment.NewMidtransProcessor(cfg.Midtrans.ServerKey, cfg.Midtrans.Production)
	ledger := refund.NewLedger()
	engine := refund.NewEngine(ledger, processor, sysLogger, pubSub, natsPub)
	merger := merge.NewMerger(sysLogger, natsPub)

	// 4. Services
	cartService := service.NewCartService(uowFactory, merger, sessionRepo, scopeBindings, sysLogger)
	refundService := service.NewRefundService(uowFactory, engine, ledger)
	reconcileService := service.NewReconcileService(pubSub, auditLogger, emailService)

	var eventFeedService service.IEventFeedService
	if natsSub != nil {
		eventFeedService = service.NewEventFeedService(natsSub, sysLogger)
	}

	// 5. Controllers
	return &Container{
		CartController:   controller.NewCartController(cartService),
		RefundController: controller.NewRefundController(refundService),

		ReconcileService: reconcileService,
		EventFeedService: eventFeedService,
	}
}
