package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	categoryapp "github.com/wyfcoding/productsearch/internal/category/application"
	categorymysql "github.com/wyfcoding/productsearch/internal/category/infrastructure/mysql"
	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/internal/indexing/infrastructure/messaging"
	"github.com/wyfcoding/productsearch/internal/indexing/infrastructure/persistence/mysql"
	queueredis "github.com/wyfcoding/productsearch/internal/indexing/infrastructure/persistence/redis"
	searchrepo "github.com/wyfcoding/productsearch/internal/indexing/infrastructure/search"
	"github.com/wyfcoding/productsearch/internal/indexing/interfaces/consumer"
	"github.com/wyfcoding/productsearch/pkg/cache"
	"github.com/wyfcoding/productsearch/pkg/config"
	"github.com/wyfcoding/productsearch/pkg/db"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/metrics"
	"github.com/wyfcoding/productsearch/pkg/mq"
	searchpkg "github.com/wyfcoding/productsearch/pkg/search"
)

var configPath = flag.String("config", "configs/indexer/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		go m.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. Infrastructure
	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Error(ctx, "failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Error(ctx, "failed to connect redis", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	kafkaCfg := mq.Config{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}
	producer := mq.NewProducer(kafkaCfg)
	defer producer.Close()

	searchClient, err := searchpkg.New(searchpkg.Config{
		Addresses: cfg.Search.Addresses,
		Username:  cfg.Search.Username,
		Password:  cfg.Search.Password,
	})
	if err != nil {
		logger.Error(ctx, "failed to create search client", "error", err)
		os.Exit(1)
	}

	// 5. Repository & Application
	source := mysql.NewSourceRepository(database.DB)
	workQueue := queueredis.NewWorkQueue(redisCache, cfg.Indexer.QueueKey)
	publisher := messaging.NewKafkaPublisher(producer)
	documents := searchrepo.NewDocumentRepository(searchClient, cfg.Search.ProductIndex)

	categoryCache := categoryapp.NewCacheService(categorymysql.NewCategoryReader(database.DB), redisCache)
	if err := categoryCache.LoadCache(ctx); err != nil {
		logger.Warn(ctx, "category cache warm-up failed, will retry lazily", "error", err)
	}

	buffer := application.NewEventBuffer(workQueue, publisher, m)
	reconciler := application.NewReconcileService(buffer, source, publisher, cfg.Indexer.FanoutPageSize)
	pipeline := application.NewAssemblyPipeline(source, categoryCache, cfg.Indexer.CodeDenylist)
	indexer := application.NewIndexerService(pipeline, documents, m,
		time.Duration(cfg.Indexer.AssembleTimeout)*time.Second)

	// 6. Consumers
	productCDC := consumer.NewProductCDCHandler(reconciler, m)
	variantCDC := consumer.NewVariantCDCHandler(reconciler, m)
	imageCDC := consumer.NewImageCDCHandler(reconciler, m)
	merchandisingCDC := consumer.NewMerchandisingCDCHandler(reconciler, m)
	categoryCDC := consumer.NewCategoryCDCHandler(reconciler, categoryCache, m)
	sellerCDC := consumer.NewSellerCDCHandler(reconciler, m)
	eventHandler := consumer.NewProductEventHandler(indexer)

	routes := consumer.CDCRoutes(cfg.Indexer.CDCTopicPrefix,
		productCDC, variantCDC, imageCDC, merchandisingCDC, categoryCDC, sellerCDC)
	routes = append(routes,
		consumer.Route{Topic: domain.TopicProductUpdated, Handler: eventHandler.HandleProductUpdated},
		consumer.Route{Topic: domain.TopicProductDeleted, Handler: eventHandler.HandleProductDeleted},
	)

	// 7. Start
	g, ctx := errgroup.WithContext(ctx)

	for _, route := range routes {
		c := mq.NewConsumer(kafkaCfg, route.Topic)
		handler := route.Handler
		g.Go(func() error {
			defer c.Close()
			return c.Start(ctx, handler)
		})
	}

	// 缓冲定时刷新
	g.Go(func() error {
		interval := time.Duration(cfg.Indexer.FlushInterval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := buffer.Flush(ctx, cfg.Indexer.FlushBatchSize); err != nil {
					logger.Error(ctx, "buffer flush failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			logger.Info(ctx, "shutting down", "signal", sig.String())
			return fmt.Errorf("received signal %s", sig)
		}
	})

	logger.Info(ctx, "indexer started",
		"service", cfg.ServiceName,
		"topics", len(routes),
		"flush_interval", cfg.Indexer.FlushInterval,
	)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error(ctx, "indexer stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "indexer stopped")
}
