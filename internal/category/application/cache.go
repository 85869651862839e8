package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wyfcoding/productsearch/internal/category/domain"
	indexdomain "github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/cache"
	"github.com/wyfcoding/productsearch/pkg/logger"
)

const (
	cacheKey = "productsearch:categories"
	cacheTTL = 24 * time.Hour
)

// CacheService 类目缓存。进程内持有整棵类目树，Redis 存平铺列表作为
// 跨进程共享层。读路径先查进程内，未加载时走 Redis，再未命中回源数据库。
type CacheService struct {
	reader domain.Reader
	redis  *cache.RedisCache

	mu   sync.RWMutex
	tree *domain.Tree
}

func NewCacheService(reader domain.Reader, redis *cache.RedisCache) *CacheService {
	return &CacheService{reader: reader, redis: redis}
}

// LoadCache 从数据库全量重载类目并刷新 Redis。类目表变更后的失效入口。
func (s *CacheService) LoadCache(ctx context.Context) error {
	flat, err := s.reader.AllCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	s.mu.Lock()
	s.tree = domain.BuildTree(flat)
	s.mu.Unlock()

	if err := s.redis.SetJSON(ctx, cacheKey, flat, cacheTTL); err != nil {
		// Redis 写失败不影响本进程可用性
		logger.Warn(ctx, "category cache write-through failed", "error", err)
	}

	logger.Info(ctx, "category cache reloaded", "count", len(flat))
	return nil
}

// Resolve 把类目 ID 解析为带完整路径的类目文档。未知 ID 静默跳过。
func (s *CacheService) Resolve(ctx context.Context, ids []int64) ([]indexdomain.CategoryDocument, error) {
	tree, err := s.ensureTree(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]indexdomain.CategoryDocument, 0, len(ids))
	for _, id := range ids {
		node, ok := tree.Get(id)
		if !ok {
			logger.Warn(ctx, "unknown category id skipped", "category_id", id)
			continue
		}
		path, _ := tree.PathOf(id)
		docs = append(docs, indexdomain.CategoryDocument{
			ID:   node.ID,
			Name: node.Name,
			Path: path,
		})
	}
	return docs, nil
}

// SubtreeIDs 返回类目及其全部后代的 ID，查询侧用于子树过滤
func (s *CacheService) SubtreeIDs(ctx context.Context, id int64) ([]int64, error) {
	tree, err := s.ensureTree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.SubtreeIDs(id), nil
}

func (s *CacheService) ensureTree(ctx context.Context) (*domain.Tree, error) {
	s.mu.RLock()
	tree := s.tree
	s.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}

	// 进程内未加载，先尝试 Redis
	var flat []domain.Category
	if err := s.redis.GetJSON(ctx, cacheKey, &flat); err != nil {
		logger.Warn(ctx, "category cache read failed, falling back to database", "error", err)
	}
	if len(flat) > 0 {
		s.mu.Lock()
		if s.tree == nil {
			s.tree = domain.BuildTree(flat)
		}
		tree = s.tree
		s.mu.Unlock()
		return tree, nil
	}

	if err := s.LoadCache(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	tree = s.tree
	s.mu.RUnlock()
	return tree, nil
}
