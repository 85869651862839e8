package domain

import (
	"context"
	"errors"

	indexdomain "github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// ErrBadSort 请求了不支持的排序字段
var ErrBadSort = errors.New("unsupported sort field")

// 排序字段名，与商品文档的 JSON 字段一一对应
const (
	SortReleasedAt = "released_at"
	SortSalePrice  = "sale_price"
	SortOrderCount = "best_order.order_count"
	SortLikeCount  = "best_order.like_count"
	SortID         = "id"
)

// SortField 单个排序维度
type SortField struct {
	Field string
	Desc  bool
}

// Query 发往搜索引擎的查询描述，由应用层组装
type Query struct {
	Keyword        string
	CategoryIDs    []int64
	SellerID       int64
	DisplayGroupID int64
	QuickDelivery  bool

	Sort []SortField
	// SearchAfter 为上一页末条的排序值元组，与 From 互斥
	SearchAfter []any
	From        int
	Size        int
}

// Hit 单条命中：文档加上分页用的排序值
type Hit struct {
	Document   indexdomain.ProductDocument
	SortValues []any
}

// SearchResult 一次查询的原始结果
type SearchResult struct {
	Hits  []Hit
	Total int64
}

// ProductSearcher 搜索索引查询端
type ProductSearcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
}
