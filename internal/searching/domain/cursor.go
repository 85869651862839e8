package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrBadCursor 游标无法解码。调用方应映射为参数错误而非服务端错误。
var ErrBadCursor = errors.New("malformed pagination cursor")

// EncodeCursor 把搜索引擎返回的排序值元组编码为不透明游标
func EncodeCursor(sortValues []any) (string, error) {
	data, err := json.Marshal(sortValues)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor 解码排序值元组游标。空串表示首页。
func DecodeCursor(cursor string) ([]any, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrBadCursor
	}
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, ErrBadCursor
	}
	if len(values) == 0 {
		return nil, ErrBadCursor
	}
	return values, nil
}

// EncodeOffsetCursor 编码榜单类列表用的单整数游标
func EncodeOffsetCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeOffsetCursor 解码单整数游标。空串表示首页（偏移 0）。
func DecodeOffsetCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrBadCursor
	}
	offset, err := strconv.Atoi(string(data))
	if err != nil || offset < 0 {
		return 0, ErrBadCursor
	}
	return offset, nil
}
