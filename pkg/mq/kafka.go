// Package mq 提供 Kafka producer/consumer 通用实现，至少一次投递，处理成功后才提交位点
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/pkg/logger"
)

// Config Kafka 配置
type Config struct {
	Brokers        []string
	GroupID        string
	SessionTimeout int
	MaxRetries     int
	RetryBackoff   int
}

// Producer Kafka 生产者
type Producer struct {
	writer *kafka.Writer
	config Config
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg Config) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka producer created successfully", "brokers", cfg.Brokers)
	return &Producer{writer: writer, config: cfg}
}

// SendMessage 发送单条消息，value 会被序列化为 JSON
func (p *Producer) SendMessage(ctx context.Context, topic string, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to send Kafka message", "topic", topic, "key", key, "error", err)
		return err
	}

	logger.Debug(ctx, "Kafka message sent", "topic", topic, "key", key)
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Handler 消息处理函数，返回非 nil error 时位点不提交
type Handler func(ctx context.Context, msg kafka.Message) error

// messageReader 消费循环依赖的 kafka.Reader 行为子集
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer Kafka 消费者，consumer group 语义，手动提交位点
type Consumer struct {
	reader messageReader
	topic  string
	config Config
}

// NewConsumer 创建 Kafka 消费者
func NewConsumer(cfg Config, topic string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        cfg.GroupID,
		SessionTimeout: time.Duration(cfg.SessionTimeout) * time.Second,
		StartOffset:    kafka.FirstOffset,
		MaxBytes:       10e6, // 10MB
	})

	logger.Info(context.Background(), "Kafka consumer created successfully",
		"brokers", cfg.Brokers,
		"topic", topic,
		"group_id", cfg.GroupID,
	)
	return &Consumer{reader: reader, topic: topic, config: cfg}
}

// Start 循环消费消息直到 ctx 取消。处理失败时按配置重试，重试耗尽则带着未提交的
// 位点退出消费循环；提交后续消息会把失败消息一并标记为已消费，所以绝不能越过它
// 继续消费，重启后从上次提交的位点重新投递。
func (c *Consumer) Start(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			logger.Error(ctx, "Failed to fetch Kafka message", "topic", c.topic, "error", err)
			return err
		}

		if err := c.handleWithRetry(ctx, msg, handler); err != nil {
			logger.Error(ctx, "Kafka message handling failed, offset not committed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			return fmt.Errorf("handle message %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Failed to commit Kafka offset",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafka.Message, handler Handler) error {
	attempts := c.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := time.Duration(c.config.RetryBackoff) * time.Millisecond

	var err error
	for i := 0; i < attempts; i++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return c.reader.Close()
}
