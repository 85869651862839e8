package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// fakeDocuments 记录索引写入调用
type fakeDocuments struct {
	mu      sync.Mutex
	saved   []*domain.ProductDocument
	deleted []int64
	saveErr error
}

func (d *fakeDocuments) Save(_ context.Context, doc *domain.ProductDocument) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.saveErr != nil {
		return d.saveErr
	}
	d.saved = append(d.saved, doc)
	return nil
}

func (d *fakeDocuments) Delete(_ context.Context, productID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, productID)
	return nil
}

func TestReindexProductSavesDocument(t *testing.T) {
	src := newFakeSource()
	seedFullProduct(src, 42)
	docs := &fakeDocuments{}
	svc := NewIndexerService(NewAssemblyPipeline(src, fakeResolver{}, nil), docs, nil, time.Second)

	require.NoError(t, svc.ReindexProduct(context.Background(), 42))
	require.Len(t, docs.saved, 1)
	assert.Equal(t, int64(42), docs.saved[0].ID)
	assert.Empty(t, docs.deleted)
}

// 组装结果为 absent 时必须走删除而非报错
func TestReindexAbsentProductDeletesDocument(t *testing.T) {
	src := newFakeSource()
	now := time.Now()
	p := validProduct(42, 10, "P-001")
	p.DeletedAt = &now
	src.products[42] = p

	docs := &fakeDocuments{}
	svc := NewIndexerService(NewAssemblyPipeline(src, fakeResolver{}, nil), docs, nil, time.Second)

	require.NoError(t, svc.ReindexProduct(context.Background(), 42))
	assert.Equal(t, []int64{42}, docs.deleted)
	assert.Empty(t, docs.saved)
}

// 索引写入失败向上抛出，交由消息重投递整体重试
func TestReindexPropagatesSaveFailure(t *testing.T) {
	src := newFakeSource()
	seedFullProduct(src, 42)
	docs := &fakeDocuments{saveErr: errors.New("index unavailable")}
	svc := NewIndexerService(NewAssemblyPipeline(src, fakeResolver{}, nil), docs, nil, time.Second)

	err := svc.ReindexProduct(context.Background(), 42)
	assert.Error(t, err)
}

func TestRemoveProduct(t *testing.T) {
	docs := &fakeDocuments{}
	svc := NewIndexerService(NewAssemblyPipeline(newFakeSource(), fakeResolver{}, nil), docs, nil, 0)

	require.NoError(t, svc.RemoveProduct(context.Background(), 7))
	assert.Equal(t, []int64{7}, docs.deleted)
}
