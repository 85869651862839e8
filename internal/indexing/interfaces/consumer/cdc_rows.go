package consumer

// CDC 行镜像。只声明换算受影响商品所需的列。

type productRow struct {
	ID       int64   `json:"id"`
	SellerID *int64  `json:"seller_id"`
	Code     *string `json:"code"`
}

type variantRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type variantOptionSetRow struct {
	ID        int64 `json:"id"`
	VariantID int64 `json:"variant_id"`
}

type stockRow struct {
	ID        int64 `json:"id"`
	VariantID int64 `json:"variant_id"`
}

type optionRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type imageRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type imageSetRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type guideImageRow struct {
	ID int64 `json:"id"`
}

type bestOrderStatRow struct {
	ProductID int64 `json:"product_id"`
}

type relatedProductRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type benefitSetRow struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
}

type productCategoryRow struct {
	ID         int64 `json:"id"`
	ProductID  int64 `json:"product_id"`
	CategoryID int64 `json:"category_id"`
}

type displayGroupProductRow struct {
	ID             int64 `json:"id"`
	DisplayGroupID int64 `json:"display_group_id"`
	ProductID      int64 `json:"product_id"`
}

type categoryRow struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
}

type sellerRow struct {
	ID int64 `json:"id"`
}
