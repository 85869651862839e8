package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// sourceRepository 源库只读网关的 GORM 实现
type sourceRepository struct{ db *gorm.DB }

func NewSourceRepository(db *gorm.DB) domain.SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sourceRepository) FindSeller(ctx context.Context, id int64) (*domain.Seller, error) {
	var s domain.Seller
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sourceRepository) FindSellerStyleTags(ctx context.Context, sellerID int64) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).
		Model(&domain.SellerStyleTag{}).
		Where("seller_id = ?", sellerID).
		Order("id").
		Pluck("tag", &tags).Error
	return tags, err
}

func (r *sourceRepository) FindVariants(ctx context.Context, productID int64) ([]domain.ProductVariant, error) {
	var variants []domain.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&variants).Error
	return variants, err
}

func (r *sourceRepository) FindCategoryIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProductCategory{}).
		Where("product_id = ?", productID).
		Order("category_id").
		Pluck("category_id", &ids).Error
	return ids, err
}

func (r *sourceRepository) FindDisplayGroupIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.DisplayGroupProduct{}).
		Where("product_id = ?", productID).
		Order("display_group_id").
		Pluck("display_group_id", &ids).Error
	return ids, err
}

func (r *sourceRepository) FindPrimaryImage(ctx context.Context, productID int64) (*domain.ProductImage, error) {
	var img domain.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND kind = ?", productID, domain.ImageKindPrimary).
		Order("position").
		First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *sourceRepository) FindImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	var images []domain.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND kind = ?", productID, domain.ImageKindGallery).
		Order("position").
		Find(&images).Error
	return images, err
}

func (r *sourceRepository) FindLabels(ctx context.Context, productID int64) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Model(&domain.ProductLabel{}).
		Where("product_id = ?", productID).
		Order("id").
		Pluck("name", &labels).Error
	return labels, err
}

func (r *sourceRepository) FindGuideImage(ctx context.Context, id int64) (*domain.GuideImage, error) {
	var g domain.GuideImage
	err := r.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sourceRepository) FindBestOrderStat(ctx context.Context, productID int64) (*domain.BestOrderStat, error) {
	var stat domain.BestOrderStat
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *sourceRepository) FindRelatedProductIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.RelatedProduct{}).
		Where("product_id = ?", productID).
		Order("related_product_id").
		Pluck("related_product_id", &ids).Error
	return ids, err
}

func (r *sourceRepository) FindOptions(ctx context.Context, productID int64) ([]domain.ProductOption, error) {
	var options []domain.ProductOption
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&options).Error
	return options, err
}

func (r *sourceRepository) FindStocks(ctx context.Context, variantIDs []int64) ([]domain.ProductStock, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var stocks []domain.ProductStock
	err := r.db.WithContext(ctx).
		Where("variant_id IN ?", variantIDs).
		Find(&stocks).Error
	return stocks, err
}

func (r *sourceRepository) ProductIDByVariant(ctx context.Context, variantID int64) (int64, error) {
	var v domain.ProductVariant
	err := r.db.WithContext(ctx).Select("product_id").First(&v, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v.ProductID, nil
}

func (r *sourceRepository) ProductIDsByGuideImage(ctx context.Context, guideImageID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("guide_image_id = ?", guideImageID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *sourceRepository) ProductIDsByCategory(ctx context.Context, categoryID, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProductCategory{}).
		Where("category_id = ? AND product_id > ?", categoryID, afterID).
		Order("product_id").
		Limit(limit).
		Pluck("product_id", &ids).Error
	return ids, err
}

func (r *sourceRepository) ProductIDsBySeller(ctx context.Context, sellerID, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("seller_id = ? AND id > ?", sellerID, afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *sourceRepository) ProductIDsAfter(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id > ? AND deleted_at IS NULL", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
