package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// IndexerService 消费商品事件，驱动文档组装并写入搜索索引。
// 组装结果为 absent 时执行删除而非报错；索引写入失败向上抛出，交由消息重投递。
type IndexerService struct {
	pipeline        *AssemblyPipeline
	documents       domain.DocumentRepository
	metrics         *metrics.Metrics
	assembleTimeout time.Duration
}

// NewIndexerService 创建索引写入服务
func NewIndexerService(pipeline *AssemblyPipeline, documents domain.DocumentRepository, m *metrics.Metrics, assembleTimeout time.Duration) *IndexerService {
	return &IndexerService{
		pipeline:        pipeline,
		documents:       documents,
		metrics:         m,
		assembleTimeout: assembleTimeout,
	}
}

// ReindexProduct 重建单个商品的索引文档
func (s *IndexerService) ReindexProduct(ctx context.Context, productID int64) error {
	if s.assembleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.assembleTimeout)
		defer cancel()
	}

	start := time.Now()
	doc, outcome, err := s.pipeline.Assemble(ctx, productID)
	if s.metrics != nil {
		s.metrics.AssemblyDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("assemble product %d: %w", productID, err)
	}

	if outcome.Absent {
		if s.metrics != nil {
			s.metrics.AssemblyAbsentTotal.WithLabelValues(outcome.Reason).Inc()
		}
		logger.Info(ctx, "Product resolved to index removal", "product_id", productID, "reason", outcome.Reason)
		return s.deleteDocument(ctx, productID)
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document %d: %w", productID, err)
	}
	if s.metrics != nil {
		s.metrics.IndexWritesTotal.WithLabelValues("upsert").Inc()
	}
	return nil
}

// RemoveProduct 直接删除索引文档（product.deleted 路径）
func (s *IndexerService) RemoveProduct(ctx context.Context, productID int64) error {
	return s.deleteDocument(ctx, productID)
}

func (s *IndexerService) deleteDocument(ctx context.Context, productID int64) error {
	if err := s.documents.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete document %d: %w", productID, err)
	}
	if s.metrics != nil {
		s.metrics.IndexWritesTotal.WithLabelValues("delete").Inc()
	}
	return nil
}
