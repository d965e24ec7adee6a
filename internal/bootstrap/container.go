package bootstrap

import (
	"context"
	"log"

	"github.com/CodeTanzania/emis-feature/internal/config"
	"github.com/CodeTanzania/emis-feature/internal/controller"
	"github.com/CodeTanzania/emis-feature/internal/pkg/logger"
	"github.com/CodeTanzania/emis-feature/internal/repository/unitofwork"
	"github.com/CodeTanzania/emis-feature/internal/schema"
	"github.com/CodeTanzania/emis-feature/internal/service"
	"github.com/CodeTanzania/emis-feature/pkg/lock"

	pkgNats "github.com/CodeTanzania/emis-feature/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const featureEventsTopic = "feature-events"

type Container struct {
	// Controllers
	FeatureController controller.IFeatureController

	// Background services (exposed for main.go to run)
	RelayService service.IRelayService

	// Seeding entrypoint (exposed for cmd/seed)
	SeedService service.ISeedService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS is optional; without it lifecycle events stay in-process.
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// Redis backs the upsert lock when configured; single-instance
	// deployments fall back to the in-process keyed mutex.
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis, using in-process lock: %v", err)
		} else {
			locker = lock.NewRedisLocker(rdb, "emis-feature")
		}
	}

	// 4. Services
	publisherService := service.NewPublisherService(featureEventsTopic, pubSub)
	relayService := service.NewRelayService(pubSub, featureEventsTopic, natsPub, sysLogger)

	normalizer := service.NewFeatureNormalizer(cfg.Feature)
	featureService := service.NewFeatureService(uowFactory, normalizer, locker, publisherService, sysLogger)
	seedService := service.NewSeedService(featureService, cfg.Feature.SeedsPath, sysLogger)

	schemaProvider := schema.NewProvider(cfg.Feature)

	// 5. Controllers
	return &Container{
		FeatureController: controller.NewFeatureController(featureService, schemaProvider, cfg.App.APIVersion),
		RelayService:      relayService,
		SeedService:       seedService,
		Logger:            sysLogger,
	}
}
