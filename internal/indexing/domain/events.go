package domain

import "time"

// 事件总线 topic
const (
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
	TopicSellerUpdated  = "seller.updated"
	TopicSellerDeleted  = "seller.deleted"
)

// ProductUpdatedEvent 商品更新事件，触发整篇文档重建
type ProductUpdatedEvent struct {
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件，直接删除索引文档
type ProductDeletedEvent struct {
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SellerUpdatedEvent 卖家更新事件
type SellerUpdatedEvent struct {
	SellerID  int64     `json:"seller_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SellerDeletedEvent 卖家删除事件
type SellerDeletedEvent struct {
	SellerID  int64     `json:"seller_id"`
	Timestamp time.Time `json:"timestamp"`
}
