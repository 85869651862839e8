package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexdomain "github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/internal/searching/domain"
)

// fakeSearcher 按排序值切片模拟搜索索引，支持 search_after 与 from 两种分页
type fakeSearcher struct {
	hits      []domain.Hit
	lastQuery *domain.Query
}

func (f *fakeSearcher) Search(_ context.Context, q *domain.Query) (*domain.SearchResult, error) {
	f.lastQuery = q

	start := 0
	if len(q.SearchAfter) > 0 {
		// 排序值首位为序号，跳到其后
		after := q.SearchAfter[0].(float64)
		for i, h := range f.hits {
			if h.SortValues[0].(float64) > after {
				start = i
				break
			}
			start = i + 1
		}
	} else if q.From > 0 {
		start = q.From
	}

	end := start + q.Size
	if end > len(f.hits) {
		end = len(f.hits)
	}
	if start > len(f.hits) {
		start = len(f.hits)
	}

	return &domain.SearchResult{
		Hits:  f.hits[start:end],
		Total: int64(len(f.hits)),
	}, nil
}

type fakeExpander struct{}

func (fakeExpander) SubtreeIDs(_ context.Context, id int64) ([]int64, error) {
	return []int64{id, id * 10, id*10 + 1}, nil
}

func makeHits(n int) []domain.Hit {
	hits := make([]domain.Hit, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, domain.Hit{
			Document:   indexdomain.ProductDocument{ID: int64(i + 1)},
			SortValues: []any{float64(i + 1), float64(i + 1)},
		})
	}
	return hits
}

// 恰好 size 条匹配时没有第 size+1 条，不给下一页游标
func TestSearchExactPageHasNoNextCursor(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(20)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)

	page, err := svc.Search(context.Background(), SearchParams{Size: 20})
	require.NoError(t, err)

	assert.Len(t, page.Products, 20)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, int64(20), page.Total)
	assert.Equal(t, 21, searcher.lastQuery.Size, "requests size+1 from the index")
}

// 21 条匹配时返回 20 条加游标；用该游标再查返回第 21 条且无下一页
func TestSearchOverflowPageAndFollowCursor(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(21)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)
	ctx := context.Background()

	first, err := svc.Search(ctx, SearchParams{Size: 20})
	require.NoError(t, err)
	require.Len(t, first.Products, 20)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, int64(20), first.Products[19].ID)

	second, err := svc.Search(ctx, SearchParams{Size: 20, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, int64(21), second.Products[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestSearchRejectsMalformedCursor(t *testing.T) {
	svc := NewSearchService(&fakeSearcher{}, fakeExpander{}, nil)

	_, err := svc.Search(context.Background(), SearchParams{Cursor: "!!!"})
	assert.ErrorIs(t, err, domain.ErrBadCursor)
}

func TestSearchRejectsUnknownSortField(t *testing.T) {
	svc := NewSearchService(&fakeSearcher{}, fakeExpander{}, nil)

	_, err := svc.Search(context.Background(), SearchParams{Sort: "-secret_field"})
	assert.ErrorIs(t, err, domain.ErrBadSort)
}

// 排序总是追加商品 ID 升序决胜字段
func TestSearchAppendsTieBreaker(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(1)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)

	_, err := svc.Search(context.Background(), SearchParams{Sort: "-sale_price"})
	require.NoError(t, err)

	require.Len(t, searcher.lastQuery.Sort, 2)
	assert.Equal(t, domain.SortField{Field: domain.SortSalePrice, Desc: true}, searcher.lastQuery.Sort[0])
	assert.Equal(t, domain.SortField{Field: domain.SortID}, searcher.lastQuery.Sort[1])
}

func TestSearchExpandsCategorySubtree(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(1)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)

	_, err := svc.Search(context.Background(), SearchParams{CategoryID: 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 70, 71}, searcher.lastQuery.CategoryIDs)
}

// 榜单走单整数偏移游标，同样多取一条判页
func TestRankingOffsetPagination(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(25)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)
	ctx := context.Background()

	first, err := svc.Ranking(ctx, 20, "")
	require.NoError(t, err)
	require.Len(t, first.Products, 20)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, domain.SortOrderCount, searcher.lastQuery.Sort[0].Field)
	assert.True(t, searcher.lastQuery.Sort[0].Desc)

	second, err := svc.Ranking(ctx, 20, first.NextCursor)
	require.NoError(t, err)
	assert.Len(t, second.Products, 5)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, 20, searcher.lastQuery.From)
}

func TestLikesSortsByLikeCount(t *testing.T) {
	searcher := &fakeSearcher{hits: makeHits(3)}
	svc := NewSearchService(searcher, fakeExpander{}, nil)

	_, err := svc.Likes(context.Background(), 10, "")
	require.NoError(t, err)
	assert.Equal(t, domain.SortLikeCount, searcher.lastQuery.Sort[0].Field)
}
