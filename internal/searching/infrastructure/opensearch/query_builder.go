package opensearch

import "github.com/wyfcoding/productsearch/internal/searching/domain"

// buildSearchBody 把查询描述翻译为 OpenSearch 请求体。
// 关键词走 multi_match，其余条件全部进 filter 子句（不参与打分）。
func buildSearchBody(q *domain.Query) map[string]any {
	boolQuery := map[string]any{}

	if q.Keyword != "" {
		boolQuery["must"] = []any{
			map[string]any{
				"multi_match": map[string]any{
					"query": q.Keyword,
					"fields": []string{
						"name^3",
						"display_name^2",
						"description",
						"seller.name",
						"labels",
					},
				},
			},
		}
	}

	var filters []any
	if len(q.CategoryIDs) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"categories.id": q.CategoryIDs},
		})
	}
	if q.SellerID > 0 {
		filters = append(filters, map[string]any{
			"term": map[string]any{"seller.id": q.SellerID},
		})
	}
	if q.DisplayGroupID > 0 {
		filters = append(filters, map[string]any{
			"term": map[string]any{"display_group_ids": q.DisplayGroupID},
		})
	}
	if q.QuickDelivery {
		filters = append(filters, map[string]any{
			"term": map[string]any{"variants.quick_delivery": true},
		})
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	body := map[string]any{
		"size":             q.Size,
		"track_total_hits": true,
	}
	if len(boolQuery) > 0 {
		body["query"] = map[string]any{"bool": boolQuery}
	} else {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}

	if len(q.Sort) > 0 {
		sort := make([]any, 0, len(q.Sort))
		for _, f := range q.Sort {
			order := "asc"
			if f.Desc {
				order = "desc"
			}
			sort = append(sort, map[string]any{f.Field: map[string]any{"order": order}})
		}
		body["sort"] = sort
	}

	if len(q.SearchAfter) > 0 {
		body["search_after"] = q.SearchAfter
	} else if q.From > 0 {
		body["from"] = q.From
	}

	return body
}
