package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http"
	alerterController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/alerter"
	avatarsController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/avatars"
	chatController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/chat"
	conversationsController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/conversations"
	healthcheckController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/healthcheck"
	imagesController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/images"
	metricsController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/metrics"
	usageController "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/usage"
	kafkaConsumerAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/kafka"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/llm"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/inmemory"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/s3"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/cache"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/storage"
	avatarRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/avatar"
	avatarImageRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/avatar_image"
	conversationRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/conversation"
	messageRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/message"
	receivedImageRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/received_image"
	usageRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/usage"
	userRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/user"
	alerterService "github.com/cybersmrt-tony/cnctd.ai/internal/services/alerter"
	jobScheduler "github.com/cybersmrt-tony/cnctd.ai/internal/services/jobs"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/catalog"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/chat"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/library"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/photo"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/quota"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB             *sqlx.DB
	HTTPServer     *http.Server
	KafkaProducer  *kafkaAdapter.Producer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	external := a.initExternalServices()

	producer := a.initKafkaProducer()
	var events service.IEventPublisher
	if producer != nil {
		events = producer
	}

	usage := repos.Usage
	if external.Counter != nil {
		usage = quota.NewCounterUsage(external.Counter)
		a.Log.Info("quota counters stored in redis")
	}

	quotaUC := quota.New(repos.User, usage, a.Metrics, a.Log)
	selector := photo.NewSelector(repos.Image, repos.Received, nil, a.Log)
	photoUC := photo.New(selector, quotaUC, events, a.Metrics, a.Log)
	catalogUC := catalog.New(repos.Avatar, repos.User, repos.Conversation, repos.Message, external.Cache, a.Log)
	generator := llm.NewClient(a.Cfg.LLM, a.Metrics, a.Log)
	chatUC := chat.New(catalogUC, repos.Conversation, repos.Message, quotaUC, photoUC, generator, a.Cfg.Chat, a.Metrics, a.Log)
	libraryUC := library.New(repos.Avatar, repos.Image, external.Objects, a.Log)

	consumers := a.initKafkaConsumers(libraryUC)

	controllers := []server.Controller{
		healthcheckController.New(pg.NewDB(db), a.Log),
		metricsController.New(a.Metrics),
		avatarsController.New(catalogUC, a.Log),
		conversationsController.New(catalogUC, a.Log),
		usageController.New(quotaUC, a.Log),
		imagesController.New(external.Objects, a.Log),
		chatController.New(chatUC, catalogUC, a.Cfg.CORS.AllowedOrigins, a.Cfg.Chat.SessionBuffer, a.Metrics, a.Log),
		alerterController.New(external.Alerter, a.Log),
	}
	httpServer := server.NewHTTPServer(a.Cfg.Server, a.Cfg.CORS, a.Log, a.Metrics, controllers...)

	scheduler := jobScheduler.NewScheduler(a.Log, external.Alerter, a.Metrics, jobScheduler.DefaultRetries)
	scheduler.Register(jobScheduler.NewExposureStats(repos.Image, db.Stats, a.Metrics, a.Log))

	return &Dependencies{
		DB:             db,
		HTTPServer:     httpServer,
		KafkaProducer:  producer,
		KafkaConsumers: consumers,
		Cache:          external.Cache,
		JobScheduler:   scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	User         repository.IUserRepo
	Avatar       repository.IAvatarRepo
	Image        repository.IAvatarImageRepo
	Received     repository.IReceivedImageRepo
	Conversation repository.IConversationRepo
	Message      repository.IMessageRepo
	Usage        repository.IUsageRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:         userRepo.New(persistenceLayer, a.Log),
		Avatar:       avatarRepo.New(persistenceLayer, a.Log),
		Image:        avatarImageRepo.New(persistenceLayer, a.Log),
		Received:     receivedImageRepo.New(persistenceLayer, a.Log),
		Conversation: conversationRepo.New(persistenceLayer, a.Log),
		Message:      messageRepo.New(persistenceLayer, a.Log),
		Usage:        usageRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices внешние сервисы, все опциональные
type externalServices struct {
	Alerter service.IAlerterService
	Cache   cache.Cache
	Counter cache.Counter // только redis, иначе счётчики в postgres
	Objects storage.IObjectStorage
}

// initExternalServices инициализирует Alerter, Cache и S3
func (a *App) initExternalServices() *externalServices {
	services := &externalServices{
		Alerter: alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log), a.Log),
	}

	if a.Cfg.Redis.Enabled() {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis, continuing with in-memory cache", "error", err)
		} else {
			client := redisAdapter.NewClient(redisClient)
			services.Cache = client
			services.Counter = client
			a.Log.Info("redis connected successfully")
		}
	}
	if services.Cache == nil {
		services.Cache = inmemory.NewStore()
	}

	objects, err := a.initObjectStorage()
	if err != nil {
		a.Log.Warn("failed to init s3, image serving disabled", "error", err)
	}
	services.Objects = objects

	return services
}

// initObjectStorage nil без ошибки, если S3 не настроен
func (a *App) initObjectStorage() (storage.IObjectStorage, error) {
	if !a.Cfg.S3.Enabled() {
		a.Log.Warn("s3 is not configured, image serving disabled")
		return nil, nil
	}

	client, err := a.Cfg.S3.NewClient()
	if err != nil {
		return nil, err
	}

	a.Log.Info("s3 connected successfully", "bucket", a.Cfg.S3.Bucket)
	return s3Adapter.NewClient(client, a.Cfg.S3.Bucket, a.Log), nil
}

// initKafkaProducer producer события image_sent, nil если топик не настроен
func (a *App) initKafkaProducer() *kafkaAdapter.Producer {
	cfg := a.Cfg.Kafka.Find(kafkaAdapter.ImageSentName)
	if cfg == nil {
		a.Log.Info("kafka image_sent is not configured, events disabled")
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(cfg, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer", "error", err, "name", kafkaAdapter.ImageSentName)
		return nil
	}
	return producer
}

// initKafkaConsumers consumers для всех топиков с consumer group
func (a *App) initKafkaConsumers(libraryUC *library.Service) map[string]*kafkaConsumerAdapter.Consumer {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config.ConsumerGroup == "" {
			continue
		}

		switch kafkaCfg.Name {
		case kafkaAdapter.ImageLibraryName:
			handler := kafkaHandlers.NewImageLibraryHandler(libraryUC, a.Log)
			consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Metrics, a.Log)
			if err != nil {
				a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
				continue
			}
			consumers[kafkaCfg.Name] = consumer
		default:
			a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
		}
	}

	return consumers
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
