package consumer

import (
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// decodeEvent 解析一条 CDC 消息并记录指标。解析失败是该消息的致命错误，
// 返回 error 让消费端不提交位点、等待重投递。
func decodeEvent[T any](m *metrics.Metrics, table string, msg kafka.Message) (*domain.ChangeEvent[T], error) {
	event, err := domain.DecodeChangeEvent[T](msg.Value)
	if err != nil {
		if m != nil {
			m.CDCDecodeErrorsTotal.WithLabelValues(table).Inc()
		}
		return nil, fmt.Errorf("decode %s change event: %w", table, err)
	}
	if m != nil {
		m.CDCEventsTotal.WithLabelValues(table, string(event.Op)).Inc()
	}
	return event, nil
}
