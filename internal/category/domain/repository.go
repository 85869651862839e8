package domain

import "context"

// Reader 类目表只读访问
type Reader interface {
	AllCategories(ctx context.Context) ([]Category, error)
}
