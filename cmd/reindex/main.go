// 全量重建作业：游标分页扫描全部在售商品 ID，批量推入重建等待队列。
// 实际的文档组装与索引写入由常驻的 indexer 进程消化。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wyfcoding/productsearch/internal/indexing/infrastructure/persistence/mysql"
	queueredis "github.com/wyfcoding/productsearch/internal/indexing/infrastructure/persistence/redis"
	"github.com/wyfcoding/productsearch/pkg/cache"
	"github.com/wyfcoding/productsearch/pkg/config"
	"github.com/wyfcoding/productsearch/pkg/db"
	"github.com/wyfcoding/productsearch/pkg/logger"
)

var (
	configPath = flag.String("config", "configs/indexer/config.toml", "config file path")
	afterID    = flag.Int64("after", 0, "resume scanning after this product id")
)

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

	// 3. Infrastructure
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

	// 4. Scan & enqueue
	source := mysql.NewSourceRepository(database.DB)
	workQueue := queueredis.NewWorkQueue(redisCache, cfg.Indexer.QueueKey)

	pageSize := cfg.Indexer.FanoutPageSize
	cursor := *afterID
	total := 0

	for {
		ids, err := source.ProductIDsAfter(ctx, cursor, pageSize)
		if err != nil {
			logger.Error(ctx, "product id scan failed", "after_id", cursor, "error", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			break
		}

		if err := workQueue.Push(ctx, ids); err != nil {
			logger.Error(ctx, "failed to enqueue batch", "after_id", cursor, "error", err)
			os.Exit(1)
		}

		total += len(ids)
		cursor = ids[len(ids)-1]
		logger.Info(ctx, "batch enqueued", "count", len(ids), "last_id", cursor, "total", total)

		if len(ids) < pageSize {
			break
		}
	}

	logger.Info(ctx, "full reindex enqueue complete", "total", total, "last_id", cursor)
}
