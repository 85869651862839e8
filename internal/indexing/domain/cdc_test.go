package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID int64 `json:"id"`
}

func TestChangeEventValidate(t *testing.T) {
	row := &testRow{ID: 1}

	tests := []struct {
		name    string
		event   ChangeEvent[testRow]
		wantErr bool
	}{
		{"create with after", ChangeEvent[testRow]{Op: OpCreate, After: row}, false},
		{"create without after", ChangeEvent[testRow]{Op: OpCreate}, true},
		{"update with after", ChangeEvent[testRow]{Op: OpUpdate, After: row}, false},
		{"update without after", ChangeEvent[testRow]{Op: OpUpdate, Before: row}, true},
		{"read with after", ChangeEvent[testRow]{Op: OpRead, After: row}, false},
		{"delete with before", ChangeEvent[testRow]{Op: OpDelete, Before: row}, false},
		{"delete without before", ChangeEvent[testRow]{Op: OpDelete, After: row}, true},
		{"unknown op", ChangeEvent[testRow]{Op: "x", After: row}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangeEventRow(t *testing.T) {
	before := &testRow{ID: 1}
	after := &testRow{ID: 2}

	deleted := ChangeEvent[testRow]{Op: OpDelete, Before: before, After: nil}
	assert.Equal(t, before, deleted.Row())

	updated := ChangeEvent[testRow]{Op: OpUpdate, Before: before, After: after}
	assert.Equal(t, after, updated.Row())
}

func TestDecodeChangeEvent(t *testing.T) {
	payload := []byte(`{"op":"u","before":{"id":1},"after":{"id":1},"source":{"table":"products","ts_ms":1700000000000}}`)

	event, err := DecodeChangeEvent[testRow](payload)
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, event.Op)
	assert.Equal(t, int64(1), event.After.ID)
	assert.Equal(t, "products", event.Source.Table)
}

func TestDecodeChangeEventRejectsBadPayload(t *testing.T) {
	_, err := DecodeChangeEvent[testRow]([]byte(`not json`))
	assert.Error(t, err)

	// delete 缺 before 镜像
	_, err = DecodeChangeEvent[testRow]([]byte(`{"op":"d","after":{"id":1}}`))
	assert.Error(t, err)
}
