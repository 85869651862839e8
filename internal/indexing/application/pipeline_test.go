package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// fakeSource 内存版源库网关
type fakeSource struct {
	products         map[int64]*domain.Product
	sellers          map[int64]*domain.Seller
	styleTags        map[int64][]string
	variants         map[int64][]domain.ProductVariant
	categoryIDs      map[int64][]int64
	displayGroupIDs  map[int64][]int64
	primaryImages    map[int64]*domain.ProductImage
	images           map[int64][]domain.ProductImage
	labels           map[int64][]string
	guideImages      map[int64]*domain.GuideImage
	bestOrderStats   map[int64]*domain.BestOrderStat
	relatedIDs       map[int64][]int64
	options          map[int64][]domain.ProductOption
	stocksByVariant  map[int64][]domain.ProductStock
	variantOwner     map[int64]int64
	guideImageOwners map[int64][]int64
	idsByCategory    map[int64][]int64
	idsBySeller      map[int64][]int64
	allIDs           []int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		products:         map[int64]*domain.Product{},
		sellers:          map[int64]*domain.Seller{},
		styleTags:        map[int64][]string{},
		variants:         map[int64][]domain.ProductVariant{},
		categoryIDs:      map[int64][]int64{},
		displayGroupIDs:  map[int64][]int64{},
		primaryImages:    map[int64]*domain.ProductImage{},
		images:           map[int64][]domain.ProductImage{},
		labels:           map[int64][]string{},
		guideImages:      map[int64]*domain.GuideImage{},
		bestOrderStats:   map[int64]*domain.BestOrderStat{},
		relatedIDs:       map[int64][]int64{},
		options:          map[int64][]domain.ProductOption{},
		stocksByVariant:  map[int64][]domain.ProductStock{},
		variantOwner:     map[int64]int64{},
		guideImageOwners: map[int64][]int64{},
		idsByCategory:    map[int64][]int64{},
		idsBySeller:      map[int64][]int64{},
	}
}

func (f *fakeSource) FindProduct(_ context.Context, id int64) (*domain.Product, error) {
	return f.products[id], nil
}

func (f *fakeSource) FindSeller(_ context.Context, id int64) (*domain.Seller, error) {
	return f.sellers[id], nil
}

func (f *fakeSource) FindSellerStyleTags(_ context.Context, sellerID int64) ([]string, error) {
	return f.styleTags[sellerID], nil
}

func (f *fakeSource) FindVariants(_ context.Context, productID int64) ([]domain.ProductVariant, error) {
	return f.variants[productID], nil
}

func (f *fakeSource) FindCategoryIDs(_ context.Context, productID int64) ([]int64, error) {
	return f.categoryIDs[productID], nil
}

func (f *fakeSource) FindDisplayGroupIDs(_ context.Context, productID int64) ([]int64, error) {
	return f.displayGroupIDs[productID], nil
}

func (f *fakeSource) FindPrimaryImage(_ context.Context, productID int64) (*domain.ProductImage, error) {
	return f.primaryImages[productID], nil
}

func (f *fakeSource) FindImages(_ context.Context, productID int64) ([]domain.ProductImage, error) {
	return f.images[productID], nil
}

func (f *fakeSource) FindLabels(_ context.Context, productID int64) ([]string, error) {
	return f.labels[productID], nil
}

func (f *fakeSource) FindGuideImage(_ context.Context, id int64) (*domain.GuideImage, error) {
	return f.guideImages[id], nil
}

func (f *fakeSource) FindBestOrderStat(_ context.Context, productID int64) (*domain.BestOrderStat, error) {
	return f.bestOrderStats[productID], nil
}

func (f *fakeSource) FindRelatedProductIDs(_ context.Context, productID int64) ([]int64, error) {
	return f.relatedIDs[productID], nil
}

func (f *fakeSource) FindOptions(_ context.Context, productID int64) ([]domain.ProductOption, error) {
	return f.options[productID], nil
}

func (f *fakeSource) FindStocks(_ context.Context, variantIDs []int64) ([]domain.ProductStock, error) {
	var out []domain.ProductStock
	for _, id := range variantIDs {
		out = append(out, f.stocksByVariant[id]...)
	}
	return out, nil
}

func (f *fakeSource) ProductIDByVariant(_ context.Context, variantID int64) (int64, error) {
	return f.variantOwner[variantID], nil
}

func (f *fakeSource) ProductIDsByGuideImage(_ context.Context, guideImageID int64) ([]int64, error) {
	return f.guideImageOwners[guideImageID], nil
}

func (f *fakeSource) ProductIDsByCategory(_ context.Context, categoryID, afterID int64, limit int) ([]int64, error) {
	return pageAfter(f.idsByCategory[categoryID], afterID, limit), nil
}

func (f *fakeSource) ProductIDsBySeller(_ context.Context, sellerID, afterID int64, limit int) ([]int64, error) {
	return pageAfter(f.idsBySeller[sellerID], afterID, limit), nil
}

func (f *fakeSource) ProductIDsAfter(_ context.Context, afterID int64, limit int) ([]int64, error) {
	return pageAfter(f.allIDs, afterID, limit), nil
}

func pageAfter(ids []int64, afterID int64, limit int) []int64 {
	var out []int64
	for _, id := range ids {
		if id > afterID {
			out = append(out, id)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// fakeResolver 把类目 ID 映射为固定名称与路径
type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, ids []int64) ([]domain.CategoryDocument, error) {
	docs := make([]domain.CategoryDocument, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, domain.CategoryDocument{
			ID:   id,
			Name: fmt.Sprintf("cat-%d", id),
			Path: fmt.Sprintf("root > cat-%d", id),
		})
	}
	return docs, nil
}

func validProduct(id, sellerID int64, code string) *domain.Product {
	price := decimal.NewFromInt(199)
	return &domain.Product{
		ID:         id,
		SellerID:   &sellerID,
		Code:       &code,
		Name:       "test product",
		SalePrice:  &price,
		ReleasedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func seedFullProduct(src *fakeSource, id int64) {
	src.products[id] = validProduct(id, 10, "P-001")
	src.sellers[10] = &domain.Seller{ID: 10, Name: "acme", Slug: "acme"}
	src.styleTags[10] = []string{"casual", "street"}
	src.variants[id] = []domain.ProductVariant{
		{ID: 100, ProductID: id, Name: "S", Quantity: 2},
		{ID: 101, ProductID: id, Name: "M", Quantity: 0},
	}
	src.categoryIDs[id] = []int64{7}
	src.displayGroupIDs[id] = []int64{3, 5}
	src.primaryImages[id] = &domain.ProductImage{ProductID: id, URL: "http://img/main.jpg"}
	src.images[id] = []domain.ProductImage{
		{ProductID: id, URL: "http://img/2.jpg", Position: 2},
		{ProductID: id, URL: "http://img/1.jpg", Position: 1},
	}
	src.labels[id] = []string{"new"}
	src.bestOrderStats[id] = &domain.BestOrderStat{ProductID: id, OrderCount: 9, LikeCount: 4}
	src.relatedIDs[id] = []int64{55}
	src.options[id] = []domain.ProductOption{{ProductID: id, Name: "gift wrap"}}
	src.stocksByVariant[100] = []domain.ProductStock{{VariantID: 100, Quantity: 8, QuickDelivery: true}}
	src.stocksByVariant[101] = []domain.ProductStock{{VariantID: 101, Quantity: 0}}
}

func TestAssembleFullDocument(t *testing.T) {
	src := newFakeSource()
	seedFullProduct(src, 42)

	p := NewAssemblyPipeline(src, fakeResolver{}, nil)
	doc, outcome, err := p.Assemble(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, outcome.Absent)
	require.NotNil(t, doc)

	assert.Equal(t, int64(42), doc.ID)
	assert.Equal(t, "P-001", doc.Code)
	assert.Equal(t, float64(199), doc.SalePrice)
	assert.Equal(t, "acme", doc.Seller.Name)
	assert.Equal(t, []string{"casual", "street"}, doc.Seller.StyleTags)
	assert.Equal(t, "http://img/main.jpg", doc.PrimaryImageURL)
	assert.Equal(t, []int64{3, 5}, doc.DisplayGroupIDs)
	assert.Equal(t, int64(9), doc.BestOrder.OrderCount)

	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "root > cat-7", doc.Categories[0].Path)

	// 图片按 position 升序
	require.Len(t, doc.Images, 2)
	assert.Equal(t, 1, doc.Images[0].Position)

	// 库存合并进变体
	require.Len(t, doc.Variants, 2)
	assert.True(t, doc.Variants[0].QuickDelivery)
	assert.Equal(t, 8, doc.Variants[0].Quantity)
	assert.True(t, doc.Variants[1].SoldOut)
}

func TestAssembleIsIdempotent(t *testing.T) {
	src := newFakeSource()
	seedFullProduct(src, 42)
	p := NewAssemblyPipeline(src, fakeResolver{}, nil)

	first, _, err := p.Assemble(context.Background(), 42)
	require.NoError(t, err)
	second, _, err := p.Assemble(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleShortCircuits(t *testing.T) {
	sellerID := int64(10)
	code := "P-001"
	denied := "BANNED"
	price := decimal.NewFromInt(10)
	deletedAt := time.Now()

	tests := []struct {
		name   string
		setup  func(src *fakeSource)
		reason string
	}{
		{
			"missing base record",
			func(src *fakeSource) {},
			"not_found",
		},
		{
			"soft deleted",
			func(src *fakeSource) {
				p := validProduct(42, sellerID, code)
				p.DeletedAt = &deletedAt
				src.products[42] = p
			},
			"deleted",
		},
		{
			"missing code",
			func(src *fakeSource) {
				p := validProduct(42, sellerID, code)
				p.Code = nil
				src.products[42] = p
			},
			"missing_code",
		},
		{
			"missing price",
			func(src *fakeSource) {
				p := validProduct(42, sellerID, code)
				p.SalePrice = nil
				src.products[42] = p
			},
			"missing_price",
		},
		{
			"denylisted code",
			func(src *fakeSource) {
				src.products[42] = &domain.Product{ID: 42, SellerID: &sellerID, Code: &denied, SalePrice: &price}
			},
			"denylisted_code",
		},
		{
			"missing seller reference",
			func(src *fakeSource) {
				p := validProduct(42, sellerID, code)
				p.SellerID = nil
				src.products[42] = p
			},
			"missing_seller_ref",
		},
		{
			"seller record gone",
			func(src *fakeSource) {
				src.products[42] = validProduct(42, sellerID, code)
			},
			"seller_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			tt.setup(src)

			p := NewAssemblyPipeline(src, fakeResolver{}, []string{"BANNED"})
			doc, outcome, err := p.Assemble(context.Background(), 42)
			require.NoError(t, err)
			assert.Nil(t, doc)
			assert.True(t, outcome.Absent)
			assert.Equal(t, tt.reason, outcome.Reason)
		})
	}
}

func TestStageOrderIsFixed(t *testing.T) {
	p := NewAssemblyPipeline(newFakeSource(), fakeResolver{}, nil)
	assert.Equal(t, []string{
		"base_record",
		"seller",
		"variants",
		"categories",
		"display_groups",
		"primary_image",
		"image_gallery",
		"labels",
		"guide_image",
		"best_order_stats",
		"related_products",
		"options",
		"stock",
	}, p.StageNames())
}
