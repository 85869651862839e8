package mq

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptReader 按固定顺序吐出消息，吐完返回 io.EOF，记录提交过的位点
type scriptReader struct {
	msgs      []kafka.Message
	next      int
	committed []int64
	closed    bool
}

func (r *scriptReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.next >= len(r.msgs) {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[r.next]
	r.next++
	return msg, nil
}

func (r *scriptReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptReader) Close() error {
	r.closed = true
	return nil
}

func testConsumer(reader messageReader) *Consumer {
	return &Consumer{
		reader: reader,
		topic:  "cdc.shop.products",
		config: Config{MaxRetries: 2, RetryBackoff: 1},
	}
}

func TestConsumerStartCommitsHandledMessages(t *testing.T) {
	reader := &scriptReader{msgs: []kafka.Message{
		{Topic: "cdc.shop.products", Offset: 10},
		{Topic: "cdc.shop.products", Offset: 11},
	}}
	consumer := testConsumer(reader)

	var handled []int64
	err := consumer.Start(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		handled = append(handled, msg.Offset)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, handled)
	assert.Equal(t, []int64{10, 11}, reader.committed)
}

func TestConsumerStartStopsAtFailedMessage(t *testing.T) {
	reader := &scriptReader{msgs: []kafka.Message{
		{Topic: "cdc.shop.products", Offset: 10},
		{Topic: "cdc.shop.products", Offset: 11},
		{Topic: "cdc.shop.products", Offset: 12},
	}}
	consumer := testConsumer(reader)

	handleErr := errors.New("source unavailable")
	var handled []int64
	err := consumer.Start(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		handled = append(handled, msg.Offset)
		if msg.Offset == 11 {
			return handleErr
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, handleErr)
	// 位点 11 处理失败后循环必须退出：不能取到 12，更不能提交 11 之后的位点，
	// 否则失败消息被一并标记为已消费，重启后不再投递。
	assert.NotContains(t, handled, int64(12))
	assert.Equal(t, []int64{10}, reader.committed)
}

func TestConsumerRetriesBeforeGivingUp(t *testing.T) {
	reader := &scriptReader{msgs: []kafka.Message{
		{Topic: "cdc.shop.products", Offset: 20},
	}}
	consumer := testConsumer(reader)

	attempts := 0
	err := consumer.Start(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []int64{20}, reader.committed)
}
