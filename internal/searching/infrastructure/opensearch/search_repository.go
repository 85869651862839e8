package opensearch

import (
	"context"

	indexdomain "github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/internal/searching/domain"
	searchpkg "github.com/wyfcoding/productsearch/pkg/search"
)

// searchRepository 搜索索引查询端的 OpenSearch 实现
type searchRepository struct {
	client *searchpkg.Client
	index  string
}

func NewSearchRepository(client *searchpkg.Client, index string) domain.ProductSearcher {
	if index == "" {
		index = "products"
	}
	return &searchRepository{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source indexdomain.ProductDocument `json:"_source"`
			Sort   []any                       `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *searchRepository) Search(ctx context.Context, q *domain.Query) (*domain.SearchResult, error) {
	var resp searchResponse
	if err := r.client.Search(ctx, r.index, buildSearchBody(q), &resp); err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		Total: resp.Hits.Total.Value,
		Hits:  make([]domain.Hit, 0, len(resp.Hits.Hits)),
	}
	for _, h := range resp.Hits.Hits {
		result.Hits = append(result.Hits, domain.Hit{
			Document:   h.Source,
			SortValues: h.Sort,
		})
	}
	return result, nil
}
