package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resource 一类 REST 资源的 CRUD，T 为实体，P 为请求体
type Resource[T any, P any] struct {
	client *Client
	path   string
}

// NewResource 绑定资源路径，如 /categories
func NewResource[T any, P any](client *Client, path string) *Resource[T, P] {
	return &Resource[T, P]{client: client, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T, P]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(strings.TrimSpace(id))
}

// Get 按 ID 获取
func (r *Resource[T, P]) Get(ctx context.Context, id string) (*Envelope[T], error) {
	var env Envelope[T]
	if err := r.client.getJSON(ctx, r.itemPath(id), nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// List 列表
func (r *Resource[T, P]) List(ctx context.Context, q ListQuery) (*Envelope[[]T], error) {
	var env Envelope[[]T]
	if err := r.client.getJSON(ctx, r.path, listQuery(q), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Create 创建
func (r *Resource[T, P]) Create(ctx context.Context, payload P) (*Envelope[T], error) {
	var env Envelope[T]
	if err := r.client.sendJSON(ctx, http.MethodPost, r.path, payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Update 更新
func (r *Resource[T, P]) Update(ctx context.Context, id string, payload P) (*Envelope[T], error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("update %s: %w", r.path, ErrNotFound)
	}
	var env Envelope[T]
	if err := r.client.sendJSON(ctx, http.MethodPut, r.itemPath(id), payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Delete 删除，响应只关心 success/message
func (r *Resource[T, P]) Delete(ctx context.Context, id string) (*Envelope[json.RawMessage], error) {
	var env Envelope[json.RawMessage]
	if err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, "", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Products 商品资源
func (c *Client) Products() *Resource[Product, ProductPayload] {
	return NewResource[Product, ProductPayload](c, "/products")
}

// Categories 分类资源
func (c *Client) Categories() *Resource[Category, Category] {
	return NewResource[Category, Category](c, "/categories")
}

// Units 单位资源
func (c *Client) Units() *Resource[Unit, Unit] {
	return NewResource[Unit, Unit](c, "/units")
}

// Tags 标签资源
func (c *Client) Tags() *Resource[Tag, Tag] {
	return NewResource[Tag, Tag](c, "/tags")
}

// Customers 客户资源
func (c *Client) Customers() *Resource[Customer, Customer] {
	return NewResource[Customer, Customer](c, "/customers")
}

// GetProduct 获取商品
func (c *Client) GetProduct(ctx context.Context, id string) (*Envelope[Product], error) {
	return c.Products().Get(ctx, id)
}

// CreateProduct 创建商品
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*Envelope[Product], error) {
	return c.Products().Create(ctx, payload)
}

// UpdateProduct 更新商品
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (*Envelope[Product], error) {
	return c.Products().Update(ctx, id, payload)
}

// DeleteProduct 删除商品
func (c *Client) DeleteProduct(ctx context.Context, id string) (*Envelope[json.RawMessage], error) {
	return c.Products().Delete(ctx, id)
}

// GetSettings 获取站点设置（单例资源）
func (c *Client) GetSettings(ctx context.Context) (*Envelope[Settings], error) {
	var env Envelope[Settings]
	if err := c.getJSON(ctx, "/settings", nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// UpdateSettings 保存站点设置
func (c *Client) UpdateSettings(ctx context.Context, payload Settings) (*Envelope[Settings], error) {
	var env Envelope[Settings]
	if err := c.sendJSON(ctx, http.MethodPut, "/settings", payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// SettingsResource 站点设置是单例资源，新建与更新都落到 PUT /settings
type SettingsResource struct {
	client *Client
}

// Settings 设置资源
func (c *Client) Settings() *SettingsResource {
	return &SettingsResource{client: c}
}

func (r *SettingsResource) Get(ctx context.Context) (*Envelope[Settings], error) {
	return r.client.GetSettings(ctx)
}

func (r *SettingsResource) Create(ctx context.Context, payload Settings) (*Envelope[Settings], error) {
	return r.client.UpdateSettings(ctx, payload)
}

func (r *SettingsResource) Update(ctx context.Context, _ string, payload Settings) (*Envelope[Settings], error) {
	return r.client.UpdateSettings(ctx, payload)
}
