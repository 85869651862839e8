package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/productsearch/internal/category/domain"
)

type categoryReader struct{ db *gorm.DB }

func NewCategoryReader(db *gorm.DB) domain.Reader {
	return &categoryReader{db: db}
}

func (r *categoryReader) AllCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := r.db.WithContext(ctx).Order("id").Find(&cats).Error
	return cats, err
}
