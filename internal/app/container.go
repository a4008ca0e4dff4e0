package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	adApp "github.com/davicafu/autostock/internal/advertisement/application"
	adDB "github.com/davicafu/autostock/internal/advertisement/infra/outbound/db"
	"github.com/davicafu/autostock/internal/config"
	infraCache "github.com/davicafu/autostock/internal/infra/cache"
	infraDB "github.com/davicafu/autostock/internal/infra/db"
	infraEvents "github.com/davicafu/autostock/internal/infra/events"
	infraRelayer "github.com/davicafu/autostock/internal/infra/relayer"
	inventoryApp "github.com/davicafu/autostock/internal/inventory/application"
	inventoryDomain "github.com/davicafu/autostock/internal/inventory/domain"
	inventoryDB "github.com/davicafu/autostock/internal/inventory/infra/outbound/db"
	inventoryMongo "github.com/davicafu/autostock/internal/inventory/infra/outbound/db/mongodb"
	maintenanceApp "github.com/davicafu/autostock/internal/maintenance/application"
	"github.com/davicafu/autostock/internal/maintenance/infra/outbound/procedures"
	mediaApp "github.com/davicafu/autostock/internal/media/application"
	mediaDomain "github.com/davicafu/autostock/internal/media/domain"
	mediaDB "github.com/davicafu/autostock/internal/media/infra/outbound/db"
	"github.com/davicafu/autostock/internal/media/infra/outbound/storage/filesystem"
	"github.com/davicafu/autostock/internal/media/infra/outbound/storage/miniostore"
	notificationApp "github.com/davicafu/autostock/internal/notification/application"
	notificationDomain "github.com/davicafu/autostock/internal/notification/domain"
	notificationDB "github.com/davicafu/autostock/internal/notification/infra/outbound/db"
	"github.com/davicafu/autostock/internal/notification/infra/outbound/notifier"
	pendingApp "github.com/davicafu/autostock/internal/pending/application"
	pendingDB "github.com/davicafu/autostock/internal/pending/infra/outbound/db"
	permissionApp "github.com/davicafu/autostock/internal/permission/application"
	permissionDomain "github.com/davicafu/autostock/internal/permission/domain"
	permissionDB "github.com/davicafu/autostock/internal/permission/infra/outbound/db"
	productivityApp "github.com/davicafu/autostock/internal/productivity/application"
	productivityDomain "github.com/davicafu/autostock/internal/productivity/domain"
	productivityEvents "github.com/davicafu/autostock/internal/productivity/infra/inbound/events"
	"github.com/davicafu/autostock/internal/productivity/infra/outbound/analytics/clickhouse"
	productivityDB "github.com/davicafu/autostock/internal/productivity/infra/outbound/db"
	workflowApp "github.com/davicafu/autostock/internal/workflow/application"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedEvents "github.com/davicafu/autostock/shared/events"
	sharedBus "github.com/davicafu/autostock/shared/platform/bus"
	sharedCache "github.com/davicafu/autostock/shared/platform/cache"
)

// MediaURLPrefix es donde el router sirve el almacenamiento en disco.
const MediaURLPrefix = "/media"

const consumerGroup = "autostock-productivity"

// Container agrupa los adaptadores y servicios de la aplicación.
// Se construye una vez por proceso (serve o CLI).
type Container struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *infraDB.DB

	Cache   sharedCache.Cache
	Queries *sharedCache.QueryCache

	Profiles       *permissionApp.ProfileService
	Advertisements *adApp.AdvertisementService
	Insights       *pendingApp.InsightService
	Aggregator     *pendingApp.Aggregator
	Poller         *pendingApp.Poller
	Coordinator    *workflowApp.Coordinator
	Maintenance    *maintenanceApp.MaintenanceService
	Inventory      *inventoryApp.InventoryService
	Media          *mediaApp.MediaService
	Productivity   *productivityApp.ProductivityService
	Notifications  *notificationApp.NotificationService
	Notifier       notificationDomain.Notifier

	Publisher sharedBus.EventPublisher

	outbox           *infraRelayer.Worker
	consumer         *productivityEvents.ProductivityConsumer
	bus              *infraEvents.InMemoryEventBus
	productivityRepo productivityDomain.Repository

	// MediaDir no vacío indica que el router debe servir los ficheros.
	MediaDir string

	closers []func() error
}

// Build abre las conexiones y construye los servicios. Los backends opcionales
// (Redis, MongoDB, ClickHouse, MinIO) que no respondan se sustituyen por su
// alternativa local con un aviso.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg, log := c.Config, c.Log

	// ---------------- DB ----------------
	db, err := infraDB.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	// ---------------- Cache ----------------
	c.Cache = c.buildCache(ctx)
	c.Queries = sharedCache.NewQueryCache(c.Cache, cfg.CacheTTL, log)

	// ---------------- Notificaciones ----------------
	notificationRepo := notificationDB.NewNotificationRepoSQL(db)
	c.Notifications = notificationApp.NewNotificationService(notificationRepo)
	c.Notifier = notifier.Fanout{
		notifier.NewLogNotifier(log),
		notifier.NewStoreNotifier(notificationRepo, log),
	}

	// ---------------- Permisos ----------------
	rules, err := permissionDomain.LoadRules(cfg.PermissionsFile)
	if err != nil {
		return fmt.Errorf("failed to load permission rules: %w", err)
	}
	c.Profiles = permissionApp.NewProfileService(permissionDB.NewProfileRepoSQL(db), c.Cache, rules, log)

	// ---------------- Pendencias y workflow ----------------
	adRepo := adDB.NewAdvertisementRepoSQL(db)
	insightRepo := pendingDB.NewInsightRepoSQL(db)
	c.Advertisements = adApp.NewAdvertisementService(adRepo, log)
	c.Insights = pendingApp.NewInsightService(insightRepo, log)
	c.Aggregator = pendingApp.NewAggregator(pendingDB.NewTaskRepoSQL(db), insightRepo, adRepo, c.Queries, cfg.PendingStaleTime, log)
	c.Poller = pendingApp.NewPoller(c.Aggregator, sharedDomain.Stores(), cfg.PendingRefreshInterval, log)

	executor := workflowApp.NewExecutor(c.Advertisements, c.Insights, log)
	c.Coordinator = workflowApp.NewCoordinator(executor, c.Queries, workflowApp.NewInFlightRegistry(), c.Notifier, log)
	c.Maintenance = maintenanceApp.NewMaintenanceService(procedures.New(db), c.Queries, c.Notifier, log)

	// ---------------- Inventario y media ----------------
	c.Inventory = inventoryApp.NewInventoryService(inventoryDB.NewVehicleRepoSQL(db), c.buildHistory(ctx), c.Cache, log)

	storage, err := c.buildStorage(ctx)
	if err != nil {
		return err
	}
	c.Media = mediaApp.NewMediaService(storage, mediaDB.NewImageRepoSQL(db), c.Inventory, c.Profiles, log)

	// ---------------- Productividad ----------------
	c.productivityRepo = c.buildProductivityRepo(ctx)
	c.Productivity = productivityApp.NewProductivityService(c.productivityRepo, log)
	c.consumer = productivityEvents.NewProductivityConsumer(c.productivityRepo, log)

	// ---------------- Eventos ----------------
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		writer := infraEvents.NewKafkaWriter(cfg.KafkaBrokers, sharedEvents.Topic)
		c.closers = append(c.closers, writer.Close)
		c.Publisher = infraEvents.NewKafkaPublisher(writer, log)
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		c.bus = infraEvents.NewInMemoryEventBus(sharedEvents.Topic)
		c.Publisher = c.bus
	}
	c.outbox = infraRelayer.NewOutboxWorker(infraDB.NewOutboxRepo(db), c.Publisher, sharedEvents.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)

	return nil
}

func (c *Container) buildCache(ctx context.Context) sharedCache.Cache {
	cfg, log := c.Config, c.Log
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
			rdb.Close()
		} else {
			log.Info("✅ Redis conectado, cache habilitado")
			c.closers = append(c.closers, rdb.Close)
			return infraCache.NewRedisCache(rdb, cfg.CacheTTL)
		}
	}
	return infraCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
}

func (c *Container) buildHistory(ctx context.Context) inventoryDomain.ChangeHistoryRepository {
	cfg, log := c.Config, c.Log
	if cfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			var repo *inventoryMongo.HistoryRepoMongoDB
			repo, err = inventoryMongo.NewHistoryRepoMongoDB(ctx, client, cfg.MongoDB)
			if err == nil {
				log.Info("✅ MongoDB conectado, historial de vehículos en MongoDB")
				c.closers = append(c.closers, func() error { return client.Disconnect(context.Background()) })
				return repo
			}
			client.Disconnect(ctx)
		}
		log.Warn("⚠️ MongoDB no disponible, historial en SQL", zap.Error(err))
	}
	return inventoryDB.NewHistoryRepoSQL(c.DB)
}

func (c *Container) buildStorage(ctx context.Context) (mediaDomain.ObjectStorage, error) {
	cfg, log := c.Config, c.Log
	if cfg.MinioEndpoint != "" {
		storage, err := miniostore.NewObjectStorage(ctx, miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, log)
		if err == nil {
			log.Info("✅ MinIO conectado", zap.String("bucket", cfg.MinioBucket))
			return storage, nil
		}
		log.Warn("⚠️ MinIO no disponible, media en disco", zap.Error(err))
	}
	storage, err := filesystem.NewObjectStorage(cfg.MediaDir, MediaURLPrefix)
	if err != nil {
		return nil, err
	}
	c.MediaDir = cfg.MediaDir
	return storage, nil
}

func (c *Container) buildProductivityRepo(ctx context.Context) productivityDomain.Repository {
	cfg, log := c.Config, c.Log
	if cfg.ClickHouseAddr != "" {
		repo, err := clickhouse.NewProductivityRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err == nil {
			if err = repo.InitSchema(ctx); err == nil {
				log.Info("✅ ClickHouse conectado, productividad en ClickHouse")
				c.closers = append(c.closers, repo.Close)
				return repo
			}
			repo.Close()
		}
		log.Warn("⚠️ ClickHouse no disponible, productividad en SQL", zap.Error(err))
	}
	return productivityDB.NewProductivityRepoSQL(c.DB)
}

// Start lanza los procesos en segundo plano (outbox, consumidores y poller).
// Todos terminan cuando ctx se cancela.
func (c *Container) Start(ctx context.Context) {
	if c.bus != nil {
		c.bus.Consume(ctx, c.consumer, 100, c.Log)
	} else {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.Config.KafkaBrokers,
			Topic:    sharedEvents.Topic,
			GroupID:  consumerGroup,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		c.closers = append(c.closers, reader.Close)
		infraEvents.NewConsumerAdapter(reader, c.consumer, c.Log).Start(ctx)
	}

	go c.outbox.Start(ctx)
	go c.Poller.Start(ctx)
}

// Close libera las conexiones en orden inverso a su apertura.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
