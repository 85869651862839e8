package search

import (
	"context"
	"strconv"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	searchpkg "github.com/wyfcoding/productsearch/pkg/search"
)

// documentRepository 搜索索引写入端的 OpenSearch 实现
type documentRepository struct {
	client *searchpkg.Client
	index  string
}

func NewDocumentRepository(client *searchpkg.Client, index string) domain.DocumentRepository {
	if index == "" {
		index = "products"
	}
	return &documentRepository{client: client, index: index}
}

func (r *documentRepository) Save(ctx context.Context, doc *domain.ProductDocument) error {
	return r.client.Index(ctx, r.index, strconv.FormatInt(doc.ID, 10), doc)
}

func (r *documentRepository) Delete(ctx context.Context, productID int64) error {
	return r.client.Delete(ctx, r.index, strconv.FormatInt(productID, 10))
}
