package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized    = errors.New("catalog unauthorized")
	ErrNotFound        = errors.New("catalog resource not found")
	ErrNoData          = errors.New("catalog response has no data")
	ErrResponseInvalid = errors.New("catalog response invalid")
	ErrConfigInvalid   = errors.New("catalog config invalid")
)

// SessionExpiredMessage 401 且后端未给出文案时展示
const SessionExpiredMessage = "Sesi Anda telah berakhir. Silakan masuk kembali."

// APIError 后端返回的逻辑失败（success=false 或非 2xx）
type APIError struct {
	Status  int
	Message string
	Detail  string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog api error: status=%d message=%q error=%q", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("catalog api error: status=%d message=%q", e.Status, e.Message)
}

// APIMessage 后端 message 字段
func (e *APIError) APIMessage() string {
	return e.Message
}

// ErrorDetail 后端 error 字段
func (e *APIError) ErrorDetail() string {
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is 按状态码匹配哨兵错误
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}

// ErrorText 响应中的 error 字段，字符串或 {"message": "..."} 两种写法都接受
type ErrorText string

func (t *ErrorText) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		*t = ErrorText(strings.TrimSpace(text))
		return nil
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		*t = ErrorText(strings.TrimSpace(nested.Message))
		return nil
	}
	// 其他形状不影响整体解码
	*t = ""
	return nil
}

// TransportError 请求未拿到可解析的响应（连接失败、超时、取消）
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
