package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 10 << 20
)

// TokenSource 提供访问令牌；收到 401 时调用 Invalidate
type TokenSource interface {
	Token() (string, error)
	Invalidate(reason string)
}

// StaticToken 固定令牌（服务间调用），Invalidate 不生效
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

func (s StaticToken) Invalidate(string) {}

// Client 商品目录后端的类型化 HTTP 客户端
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// Option 客户端配置项
type Option func(*Client)

// WithHTTPClient 指定底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout 指定请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		}
	}
}

// NewClient 创建客户端，tokens 为空时不附带 Authorization
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	normalized := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if normalized == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(normalized); err != nil {
		return nil, fmt.Errorf("%w: base_url invalid", ErrConfigInvalid)
	}
	c := &Client{
		baseURL:    normalized,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// WithTokens 返回使用另一个令牌来源的浅拷贝（共享底层连接）
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

// BaseURL 后端地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s %s payload: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json", out)
}

// do 发送请求并把响应体解码到信封 out
// 非 2xx 但能解析出信封时按逻辑失败处理，不返回 error
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	token := ""
	if c.tokens != nil {
		t, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		token = t
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	var probe struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Error   ErrorText `json:"error"`
	}
	decodeErr := json.Unmarshal(raw, &probe)
	failed := resp.StatusCode < 200 || resp.StatusCode >= 300

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.Invalidate("catalog responded 401")
		}
		message := probe.Message
		if decodeErr != nil || message == "" {
			message = SessionExpiredMessage
		}
		return &APIError{Status: resp.StatusCode, Message: message, Detail: string(probe.Error)}
	}

	if decodeErr != nil {
		if failed {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("%w: %s %s: %v", ErrResponseInvalid, method, path, decodeErr)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// 失败响应的 data 形状不可靠，保留 message 与 error
		if failed {
			return &APIError{Status: resp.StatusCode, Message: probe.Message, Detail: string(probe.Error)}
		}
		return fmt.Errorf("%w: %s %s: %v", ErrResponseInvalid, method, path, err)
	}
	if status, ok := out.(statusSetter); ok {
		status.setStatus(resp.StatusCode)
	}
	return nil
}

type statusSetter interface {
	setStatus(code int)
}

func (e *Envelope[T]) setStatus(code int) {
	e.Status = code
	if code < 200 || code >= 300 {
		e.Success = false
	}
}

func listQuery(q ListQuery) url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("limit", strconv.Itoa(q.PageSize))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		values.Set("search", s)
	}
	if s := strings.TrimSpace(q.Category); s != "" {
		values.Set("categoryId", s)
	}
	return values
}
