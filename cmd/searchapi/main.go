package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	categoryapp "github.com/wyfcoding/productsearch/internal/category/application"
	categorymysql "github.com/wyfcoding/productsearch/internal/category/infrastructure/mysql"
	queueredis "github.com/wyfcoding/productsearch/internal/indexing/infrastructure/persistence/redis"
	"github.com/wyfcoding/productsearch/internal/searching/application"
	searchos "github.com/wyfcoding/productsearch/internal/searching/infrastructure/opensearch"
	httpserver "github.com/wyfcoding/productsearch/internal/searching/interfaces/http"
	"github.com/wyfcoding/productsearch/pkg/cache"
	"github.com/wyfcoding/productsearch/pkg/config"
	"github.com/wyfcoding/productsearch/pkg/db"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/metrics"
	searchpkg "github.com/wyfcoding/productsearch/pkg/search"
)

var configPath = flag.String("config", "configs/searchapi/config.toml", "config file path")

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
	categoryCache := categoryapp.NewCacheService(categorymysql.NewCategoryReader(database.DB), redisCache)
	if err := categoryCache.LoadCache(ctx); err != nil {
		logger.Warn(ctx, "category cache warm-up failed, will retry lazily", "error", err)
	}

	searcher := searchos.NewSearchRepository(searchClient, cfg.Search.ProductIndex)
	searchService := application.NewSearchService(searcher, categoryCache, m)

	// 手动触发的单品重建只把 ID 推进共享工作队列，刷新与装配由 indexer 进程完成
	workQueue := queueredis.NewWorkQueue(redisCache, cfg.Indexer.QueueKey)

	// 6. Interfaces
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := httpserver.NewSearchHandler(searchService, categoryCache, workQueue)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. Start
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "search api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			logger.Info(ctx, "shutting down", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error(ctx, "search api stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "search api stopped")
}
