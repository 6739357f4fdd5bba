package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/wyfcoding/ecommerce/internal/cart/application"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/ecommerce/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
	ordermessaging "github.com/wyfcoding/ecommerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	orderredis "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/redis"
	ordersearch "github.com/wyfcoding/ecommerce/internal/order/infrastructure/search"
	orderevents "github.com/wyfcoding/ecommerce/internal/order/interfaces/events"
	orderhttp "github.com/wyfcoding/ecommerce/internal/order/interfaces/http"
	pointsapp "github.com/wyfcoding/ecommerce/internal/points/application"
	pointsdomain "github.com/wyfcoding/ecommerce/internal/points/domain"
	pointsmysql "github.com/wyfcoding/ecommerce/internal/points/infrastructure/persistence/mysql"
	pointshttp "github.com/wyfcoding/ecommerce/internal/points/interfaces/http"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	searchpkg "github.com/wyfcoding/pkg/search"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/checkout/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&catalogdomain.Product{},
			&cartdomain.Cart{},
			&cartdomain.CartItem{},
			&pointsdomain.PointTransaction{},
			&ordermysql.OrderModel{},
			&ordermysql.OrderItemModel{},
			&ordermysql.PaymentModel{},
			&ordermysql.AddressModel{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
	}

	// 7. Elasticsearch
	esCfg := &searchpkg.Config{
		ServiceName:         cfg.Server.Name,
		ElasticsearchConfig: cfg.Data.Elasticsearch,
		BreakerConfig:       cfg.CircuitBreaker,
	}
	esClient, err := searchpkg.NewClient(esCfg, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init elasticsearch", "error", err)
	}

	// 8. 仓储
	productRepo := catalogmysql.NewProductRepository(db.RawDB())
	cartRepo := cartmysql.NewCartRepository(db.RawDB())
	pointRepo := pointsmysql.NewPointTransactionRepository(db.RawDB())
	orderRepo := ordermysql.NewOrderRepository(db.RawDB())
	paymentRepo := ordermysql.NewPaymentRepository(db.RawDB())
	addressRepo := ordermysql.NewAddressRepository(db.RawDB())
	orderReadRepo := orderredis.NewOrderRedisRepository(redisCache.GetClient())
	orderSearchRepo := ordersearch.NewOrderSearchRepository(esClient)
	publisher := ordermessaging.NewOutboxPublisher(outboxMgr)

	// 9. 应用服务
	catalogSvc := catalogapp.NewCatalogQueryService(productRepo)
	cartSvc := cartapp.NewCartApplicationService(cartRepo, productRepo)
	pointsSvc := pointsapp.NewPointsService(pointRepo)
	checkoutSvc := orderapp.NewCheckoutCommandService(cartRepo, orderRepo, paymentRepo, addressRepo, productRepo, pointsSvc, publisher)
	orderQuerySvc := orderapp.NewOrderQueryService(orderRepo, orderReadRepo, orderSearchRepo)

	// 10. 事件消费者：下单事件同步到 ES
	kafkaCfg := &cfg.MessageQueue.Kafka
	kafkaCfg.GroupID = "checkout-search-indexer"
	kafkaCfg.Topic = orderdomain.OrderPlacedEventType
	consumer := kafka.NewConsumer(kafkaCfg, logger, metricsImpl)
	searchHandler := orderevents.NewOrderSearchHandler(orderSearchRepo, orderRepo)

	// 11. 接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecovery(), middleware.GinLogging(), middleware.GinCORS())

	root := r.Group("")
	cataloghttp.NewCatalogHandler(catalogSvc).RegisterRoutes(root)
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(root)
	pointshttp.NewPointsHandler(pointsSvc).RegisterRoutes(root)
	orderhttp.NewOrderHandler(checkoutSvc, orderQuerySvc).RegisterRoutes(root)

	// 12. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		searchHandler.Subscribe(ctx, consumer)
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
