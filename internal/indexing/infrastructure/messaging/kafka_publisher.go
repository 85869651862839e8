package messaging

import (
	"context"
	"strconv"
	"time"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/mq"
)

// kafkaPublisher 事件总线发布端的 Kafka 实现。消息 key 取实体 ID，
// 保证同一商品/卖家的事件落在同一分区内有序。
type kafkaPublisher struct {
	producer *mq.Producer
}

func NewKafkaPublisher(producer *mq.Producer) domain.EventPublisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) PublishProductUpdated(ctx context.Context, productID int64) error {
	event := domain.ProductUpdatedEvent{ProductID: productID, Timestamp: time.Now()}
	return p.producer.SendMessage(ctx, domain.TopicProductUpdated, strconv.FormatInt(productID, 10), event)
}

func (p *kafkaPublisher) PublishProductDeleted(ctx context.Context, productID int64) error {
	event := domain.ProductDeletedEvent{ProductID: productID, Timestamp: time.Now()}
	return p.producer.SendMessage(ctx, domain.TopicProductDeleted, strconv.FormatInt(productID, 10), event)
}

func (p *kafkaPublisher) PublishSellerUpdated(ctx context.Context, sellerID int64) error {
	event := domain.SellerUpdatedEvent{SellerID: sellerID, Timestamp: time.Now()}
	return p.producer.SendMessage(ctx, domain.TopicSellerUpdated, strconv.FormatInt(sellerID, 10), event)
}

func (p *kafkaPublisher) PublishSellerDeleted(ctx context.Context, sellerID int64) error {
	event := domain.SellerDeletedEvent{SellerID: sellerID, Timestamp: time.Now()}
	return p.producer.SendMessage(ctx, domain.TopicSellerDeleted, strconv.FormatInt(sellerID, 10), event)
}
