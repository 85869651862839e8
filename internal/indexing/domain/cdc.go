package domain

import (
	"encoding/json"
	"fmt"
)

// Operation CDC 操作类型
type Operation string

const (
	OpCreate Operation = "c"
	OpUpdate Operation = "u"
	OpDelete Operation = "d"
	// OpRead 快照读取
	OpRead Operation = "r"
)

// ChangeSource CDC 来源元数据
type ChangeSource struct {
	Table string `json:"table"`
	TsMs  int64  `json:"ts_ms"`
	TxID  int64  `json:"tx_id"`
}

// ChangeEvent 行级变更事件封装。
// create/update/read 必须携带 after，delete 必须携带 before；违反即该消息的致命解析错误。
type ChangeEvent[T any] struct {
	Before *T           `json:"before"`
	After  *T           `json:"after"`
	Op     Operation    `json:"op"`
	Source ChangeSource `json:"source"`
}

// Row 返回本次操作对应的行镜像：delete 取 before，其余取 after
func (e *ChangeEvent[T]) Row() *T {
	if e.Op == OpDelete {
		return e.Before
	}
	return e.After
}

// Validate 校验 op 与前后镜像的匹配关系
func (e *ChangeEvent[T]) Validate() error {
	switch e.Op {
	case OpCreate, OpUpdate, OpRead:
		if e.After == nil {
			return fmt.Errorf("change event op=%s requires after image", e.Op)
		}
	case OpDelete:
		if e.Before == nil {
			return fmt.Errorf("change event op=%s requires before image", e.Op)
		}
	default:
		return fmt.Errorf("unknown change event op: %q", e.Op)
	}
	return nil
}

// DecodeChangeEvent 解析并校验一条 CDC 消息
func DecodeChangeEvent[T any](data []byte) (*ChangeEvent[T], error) {
	var event ChangeEvent[T]
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal change event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}
