package application

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler(src *fakeSource, pageSize int) (*ReconcileService, *fakeQueue, *fakePublisher) {
	queue := &fakeQueue{}
	pub := &fakePublisher{}
	buffer := NewEventBuffer(queue, pub, nil)
	return NewReconcileService(buffer, src, pub, pageSize), queue, pub
}

func TestEnqueueByVariantResolvesOwner(t *testing.T) {
	src := newFakeSource()
	src.variantOwner[100] = 42

	rec, queue, _ := newTestReconciler(src, 1000)
	require.NoError(t, rec.EnqueueByVariant(context.Background(), 100))

	assert.Equal(t, []int64{42}, queue.ids)
}

// 变体已不可解析时记录日志并按完成处理，不报错也不入队
func TestEnqueueByVariantMissIsNoop(t *testing.T) {
	rec, queue, _ := newTestReconciler(newFakeSource(), 1000)

	require.NoError(t, rec.EnqueueByVariant(context.Background(), 999))
	assert.Empty(t, queue.ids)
}

func TestEnqueueByGuideImage(t *testing.T) {
	src := newFakeSource()
	src.guideImageOwners[5] = []int64{42, 43}

	rec, queue, _ := newTestReconciler(src, 1000)
	require.NoError(t, rec.EnqueueByGuideImage(context.Background(), 5))
	assert.Equal(t, []int64{42, 43}, queue.ids)

	// 无引用商品时 no-op
	require.NoError(t, rec.EnqueueByGuideImage(context.Background(), 6))
	assert.Len(t, queue.ids, 2)
}

func TestFanoutCategorySinglePage(t *testing.T) {
	src := newFakeSource()
	src.idsByCategory[7] = []int64{101, 205, 310}

	rec, queue, _ := newTestReconciler(src, 1000)
	require.NoError(t, rec.FanoutCategory(context.Background(), 7))

	sort.Slice(queue.ids, func(i, j int) bool { return queue.ids[i] < queue.ids[j] })
	assert.Equal(t, []int64{101, 205, 310}, queue.ids)
}

func TestFanoutCategoryPagesUntilShortPage(t *testing.T) {
	src := newFakeSource()
	src.idsByCategory[7] = []int64{1, 2, 3, 4, 5}

	rec, queue, _ := newTestReconciler(src, 2)
	require.NoError(t, rec.FanoutCategory(context.Background(), 7))

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, queue.ids)
}

// 商品删除走直达路径：发布 product.deleted，等待队列不收任何东西
func TestProductDeletedBypassesQueue(t *testing.T) {
	rec, queue, pub := newTestReconciler(newFakeSource(), 1000)

	require.NoError(t, rec.ProductDeleted(context.Background(), 42))
	assert.Equal(t, []int64{42}, pub.deleted)
	assert.Empty(t, queue.ids)
}

func TestSellerChangedPublishesAndFansOut(t *testing.T) {
	src := newFakeSource()
	src.idsBySeller[10] = []int64{1, 2}

	rec, queue, pub := newTestReconciler(src, 1000)
	require.NoError(t, rec.SellerChanged(context.Background(), 10, false))

	assert.Equal(t, []int64{10}, pub.sellers)
	assert.Equal(t, []int64{1, 2}, queue.ids)
}

func TestSellerDeletedStillFansOut(t *testing.T) {
	src := newFakeSource()
	src.idsBySeller[10] = []int64{1}

	rec, queue, pub := newTestReconciler(src, 1000)
	require.NoError(t, rec.SellerChanged(context.Background(), 10, true))

	assert.Equal(t, []int64{-10}, pub.sellers)
	assert.Equal(t, []int64{1}, queue.ids)
}
