package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	indexdomain "github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/internal/searching/domain"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CategoryExpander 把类目 ID 展开为含全部后代的 ID 集合（由类目缓存实现）
type CategoryExpander interface {
	SubtreeIDs(ctx context.Context, id int64) ([]int64, error)
}

// SearchParams 搜索接口入参
type SearchParams struct {
	Keyword        string
	CategoryID     int64
	SellerID       int64
	DisplayGroupID int64
	QuickDelivery  bool
	Sort           string
	Size           int
	Cursor         string
}

// Page 分页结果。NextCursor 为空表示没有下一页。
type Page struct {
	Products   []indexdomain.ProductDocument `json:"products"`
	Total      int64                         `json:"total"`
	NextCursor string                        `json:"next_cursor,omitempty"`
}

// SearchService 商品搜索应用服务。所有列表统一走「多取一条」判页：
// 向搜索引擎请求 size+1 条，拿满则截断并把第 size 条的分页键编码为游标。
type SearchService struct {
	searcher   domain.ProductSearcher
	categories CategoryExpander
	metrics    *metrics.Metrics
}

func NewSearchService(searcher domain.ProductSearcher, categories CategoryExpander, m *metrics.Metrics) *SearchService {
	return &SearchService{searcher: searcher, categories: categories, metrics: m}
}

// Search 关键词/类目/卖家/展示分组过滤的通用搜索，search_after 游标分页
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*Page, error) {
	defer s.observe(time.Now())

	size := normalizeSize(params.Size)

	searchAfter, err := domain.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	sort, err := parseSort(params.Sort)
	if err != nil {
		return nil, err
	}

	q := &domain.Query{
		Keyword:        params.Keyword,
		SellerID:       params.SellerID,
		DisplayGroupID: params.DisplayGroupID,
		QuickDelivery:  params.QuickDelivery,
		Sort:           sort,
		SearchAfter:    searchAfter,
		Size:           size + 1,
	}
	if params.CategoryID > 0 {
		ids, err := s.categories.SubtreeIDs(ctx, params.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("expand category subtree: %w", err)
		}
		if len(ids) == 0 {
			ids = []int64{params.CategoryID}
		}
		q.CategoryIDs = ids
	}

	result, err := s.searcher.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &Page{Total: result.Total}
	hits := result.Hits
	if len(hits) > size {
		hits = hits[:size]
		cursor, err := domain.EncodeCursor(hits[len(hits)-1].SortValues)
		if err != nil {
			return nil, fmt.Errorf("encode cursor: %w", err)
		}
		page.NextCursor = cursor
	}
	page.Products = make([]indexdomain.ProductDocument, 0, len(hits))
	for _, h := range hits {
		page.Products = append(page.Products, h.Document)
	}
	return page, nil
}

// Ranking 销量榜。单整数偏移游标，同样多取一条判页。
func (s *SearchService) Ranking(ctx context.Context, size int, cursor string) (*Page, error) {
	return s.listByOffset(ctx, domain.SortOrderCount, size, cursor)
}

// Likes 点赞榜
func (s *SearchService) Likes(ctx context.Context, size int, cursor string) (*Page, error) {
	return s.listByOffset(ctx, domain.SortLikeCount, size, cursor)
}

func (s *SearchService) listByOffset(ctx context.Context, field string, size int, cursor string) (*Page, error) {
	defer s.observe(time.Now())

	size = normalizeSize(size)

	offset, err := domain.DecodeOffsetCursor(cursor)
	if err != nil {
		return nil, err
	}

	result, err := s.searcher.Search(ctx, &domain.Query{
		Sort: []domain.SortField{
			{Field: field, Desc: true},
			{Field: domain.SortID},
		},
		From: offset,
		Size: size + 1,
	})
	if err != nil {
		return nil, err
	}

	page := &Page{Total: result.Total}
	hits := result.Hits
	if len(hits) > size {
		hits = hits[:size]
		page.NextCursor = domain.EncodeOffsetCursor(offset + size)
	}
	page.Products = make([]indexdomain.ProductDocument, 0, len(hits))
	for _, h := range hits {
		page.Products = append(page.Products, h.Document)
	}
	return page, nil
}

func (s *SearchService) observe(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchRequestsTotal.Inc()
	s.metrics.SearchRequestDuration.Observe(time.Since(start).Seconds())
}

func normalizeSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// parseSort 解析 "-released_at" 形式的排序参数，并固定追加商品 ID 升序
// 作为决胜字段，保证游标分页的严格全序。
func parseSort(raw string) ([]domain.SortField, error) {
	field := strings.TrimSpace(raw)
	if field == "" {
		field = "-" + domain.SortReleasedAt
	}

	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	switch field {
	case domain.SortReleasedAt, domain.SortSalePrice, domain.SortOrderCount, domain.SortLikeCount:
	default:
		return nil, domain.ErrBadSort
	}

	return []domain.SortField{
		{Field: field, Desc: desc},
		{Field: domain.SortID},
	}, nil
}
