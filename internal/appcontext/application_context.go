package appcontext

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/handler"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/config"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/cache"
	infraconsumer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/consumer"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway/paypal"
	kafkaconfig "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/config"
	kafkaconsumer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/consumer"
	kafkaproducer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/kafka/producer"
	infraproducer "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/producer"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository/db"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository/memory"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/ratelimit"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn      *gorm.DB
	Store       repository.UnifiedDB
	RedisClient *redis.Client
	TokenCache  cache.Cache

	PaymentGateway       gateway.PaymentGateway
	NotificationProducer *infraproducer.NotificationProducer
	NotificationConsumer *kafkaconsumer.Consumer
	Notifier             service.Notifier

	ProductService      service.IProductService
	CartService         service.ICartService
	OrderService        service.IOrderService
	PaymentService      service.IPaymentService
	NotificationService service.INotificationService
	WishlistService     service.IWishlistService

	PaymentLimiter ratelimit.Limiter
	localLimiter   *ratelimit.TokenBucket
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	if cf == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	logger.Info().
		Str("store_driver", cf.StoreDriver).
		Bool("redis", cf.RedisEnabled()).
		Bool("kafka", cf.KafkaEnabled()).
		Str("paypal_base_url", cf.PayPalBaseURL).
		Msg("loading application context")

	if err := app.Init(); err != nil {
		// 已建立的資源要釋放
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Shutdown(shutdownCtx)
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"store", app.setUpStore},
		{"redis", app.setUpRedis},
		{"payment gateway", app.setUpPaymentGateway},
		{"notification service", app.setUpNotificationService},
		{"notifier", app.setUpNotifier},
		{"domain services", app.setUpDomainServices},
		{"rate limiter", app.setUpRateLimiter},
	}
	for _, step := range steps {
		app.Logger.Info().Msgf("Start setup %s", step.name)
		if err := step.fn(); err != nil {
			return fmt.Errorf("setup %s: %w", step.name, err)
		}
		app.Logger.Info().Msgf("Finish setup %s", step.name)
	}
	return nil
}

func (app *ApplicationContext) setUpStore() error {
	if !app.Cf.UsePostgres() {
		app.Logger.Warn().Msg("using in-memory store, data will not survive restart")
		app.Store = memory.NewStore()
		return nil
	}

	// 有設定 migration 檔案時使用 golang-migrate，否則使用 gorm AutoMigrate
	if app.Cf.MigrationURL != "" {
		if err := db.RunDBMigration(app.Cf.MigrationURL, app.Cf.DbSource()); err != nil {
			return err
		}
	}

	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	store := db.NewUnifiedDB(conn)
	app.Store = store

	if app.Cf.MigrationURL == "" {
		return store.InitMigrate()
	}
	return nil
}

func (app *ApplicationContext) setUpRedis() error {
	if !app.Cf.RedisEnabled() {
		app.TokenCache = cache.NewMemoryCache()
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
		DB:       app.Cf.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return err
	}
	app.RedisClient = client
	app.TokenCache = cache.NewRedisCache(client, constants.CachePrefixPayPal)
	return nil
}

func (app *ApplicationContext) setUpPaymentGateway() error {
	if app.Cf.PayPalClientID == "" || app.Cf.PayPalSecret == "" {
		app.Logger.Warn().Msg("PAYPAL_CLIENT_ID/PAYPAL_SECRET not set, payment confirmation will fail")
	}
	client := paypal.NewClient(paypal.Config{
		BaseURL:  app.Cf.PayPalBaseURL,
		ClientID: app.Cf.PayPalClientID,
		Secret:   app.Cf.PayPalSecret,
		Timeout:  app.Cf.PayPalTimeout,
	})
	tokens := paypal.NewCachedTokenSource(client, app.TokenCache, constants.AccessTokenExpirySkew, app.Logger)
	app.PaymentGateway = paypal.NewGateway(client, tokens)
	return nil
}

func (app *ApplicationContext) setUpNotificationService() error {
	app.NotificationService = service.NewNotificationService(app.Store, app.Logger)
	return nil
}

// setUpNotifier 有 kafka 時透過 topic 非同步寫入通知，否則在 process 內直接寫入
func (app *ApplicationContext) setUpNotifier() error {
	if !app.Cf.KafkaEnabled() {
		app.Notifier = service.NewDirectNotifier(app.NotificationService)
		return nil
	}

	cfg := app.kafkaConfig()
	p, err := kafkaproducer.New(cfg, app.Logger)
	if err != nil {
		return err
	}
	app.NotificationProducer = infraproducer.NewNotificationProducer(p)
	app.Notifier = app.NotificationProducer

	reader, err := kafkaconsumer.NewReader(cfg)
	if err != nil {
		return err
	}
	processer := infraconsumer.NewNotificationProcesser(app.NotificationService, app.Logger)
	app.NotificationConsumer = kafkaconsumer.NewConsumer(reader, processer, cfg, app.Logger)
	return nil
}

func (app *ApplicationContext) kafkaConfig() *kafkaconfig.Config {
	cfg := kafkaconfig.DefaultConfig()
	cfg.Brokers = app.Cf.KafkaBrokers
	cfg.Topic = app.Cf.KafkaNotificationTopic
	cfg.ConsumerGroup = app.Cf.KafkaGroupID
	return cfg
}

func (app *ApplicationContext) setUpDomainServices() error {
	app.ProductService = service.NewProductService(app.Store)
	app.CartService = service.NewCartService(app.Store, app.Logger)
	app.OrderService = service.NewOrderService(app.Store, app.Logger)
	app.PaymentService = service.NewPaymentService(app.Store, app.PaymentGateway, app.Notifier, app.Logger)
	app.WishlistService = service.NewWishlistService(app.Store, app.Logger)
	return nil
}

func (app *ApplicationContext) setUpRateLimiter() error {
	cfg := ratelimit.Config{
		Capacity:     app.Cf.RateLimitCapacity,
		RefillPerSec: app.Cf.RateLimitRefillPerSec,
	}
	if app.RedisClient != nil {
		app.PaymentLimiter = ratelimit.NewRedisTokenBucket(app.RedisClient, cfg, app.Logger)
		return nil
	}
	app.localLimiter = ratelimit.NewTokenBucket(cfg)
	app.PaymentLimiter = app.localLimiter
	return nil
}

// HealthChecks 給 /healthz 使用
func (app *ApplicationContext) HealthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if app.DbConn != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := app.DbConn.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if app.RedisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return app.RedisClient.Ping(ctx).Err()
		}
	}
	return checks
}

// Shutdown 依建立的反向順序關閉，個別錯誤不中斷流程
func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error

		if app.NotificationConsumer != nil {
			app.Logger.Info().Msg("Stopping notification consumer...")
			if err := app.NotificationConsumer.Stop(constants.DefaultNotifyTimeout); err != nil {
				errs = append(errs, fmt.Errorf("consumer: %w", err))
			}
		}
		if app.NotificationProducer != nil {
			app.Logger.Info().Msg("Closing notification producer...")
			if err := app.NotificationProducer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("producer: %w", err))
			}
		}
		if app.localLimiter != nil {
			app.localLimiter.Stop()
		}
		if app.RedisClient != nil {
			app.Logger.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("redis: %w", err))
			}
		}
		if app.Store != nil {
			app.Logger.Info().Msg("Closing store...")
			if err := app.Store.Close(); err != nil {
				errs = append(errs, fmt.Errorf("store: %w", err))
			}
		}

		app.Logger.Info().Msg("Application shutdown complete")
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
