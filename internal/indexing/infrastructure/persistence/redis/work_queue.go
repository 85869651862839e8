package redis

import (
	"context"
	"strconv"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/cache"
	"github.com/wyfcoding/productsearch/pkg/logger"
)

// workQueue 基于 Redis list 的重建索引等待队列。
// RPUSH 追加、LPOP count 原子弹出，去重留给刷新端。
type workQueue struct {
	cache *cache.RedisCache
	key   string
}

func NewWorkQueue(c *cache.RedisCache, key string) domain.WorkQueue {
	return &workQueue{cache: c, key: key}
}

func (q *workQueue) Push(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(productIDs))
	for _, id := range productIDs {
		values = append(values, strconv.FormatInt(id, 10))
	}
	return q.cache.RPush(ctx, q.key, values...)
}

func (q *workQueue) Pop(ctx context.Context, count int) ([]int64, error) {
	if count <= 0 {
		return nil, nil
	}
	vals, err := q.cache.LPopCount(ctx, q.key, count)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			// 队列里出现非数字条目说明写入端有 bug，丢弃并告警
			logger.Warn(ctx, "Dropping malformed work queue entry", "entry", v)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (q *workQueue) Len(ctx context.Context) (int64, error) {
	return q.cache.LLen(ctx, q.key)
}
