// Package search 提供 OpenSearch 客户端封装：按 ID 写入/删除文档、原生 JSON 查询
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/wyfcoding/productsearch/pkg/logger"
)

// Config OpenSearch 配置
type Config struct {
	Addresses []string
	Username  string
	Password  string
}

// Client OpenSearch 客户端包装
type Client struct {
	client *opensearch.Client
}

// New 创建 OpenSearch 客户端
func New(cfg Config) (*Client, error) {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	logger.Info(context.Background(), "OpenSearch client created successfully", "addresses", cfg.Addresses)
	return &Client{client: client}, nil
}

// Index 写入（或覆盖）单个文档
func (c *Client) Index(ctx context.Context, index, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request failed: %s", res.String())
	}
	return nil
}

// Delete 按 ID 删除文档，文档不存在视为成功
func (c *Client) Delete(ctx context.Context, index, id string) error {
	req := opensearchapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete request failed: %s", res.String())
	}
	return nil
}

// Search 执行原生 JSON 查询，结果解码到 dest
func (c *Client) Search(ctx context.Context, index string, query map[string]any, dest interface{}) error {
	data, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(data),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search request failed: %s", res.String())
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
