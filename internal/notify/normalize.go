package notify

import (
	"errors"
	"strings"
)

// FallbackErrorMessage 无法提取任何可读信息时的兜底文案
const FallbackErrorMessage = "Terjadi kesalahan yang tidak diketahui. Silakan coba lagi."

// apiMessenger 携带后端返回的错误信息（响应体中的 message）
type apiMessenger interface {
	APIMessage() string
}

// messenger 携带通用 message 字段
type messenger interface {
	Message() string
}

// detailer 携带嵌套的 error 字段
type detailer interface {
	ErrorDetail() string
}

// ErrorMessage 将任意错误值归一化为可展示文本
// 优先级：字符串本身 → 后端响应中的 message → 通用 message → 嵌套 error → 兜底文案
// 普通 error 的 Error() 文本不会展示给用户
func ErrorMessage(v any) string {
	switch value := v.(type) {
	case nil:
		return FallbackErrorMessage
	case string:
		if text := strings.TrimSpace(value); text != "" {
			return value
		}
		return FallbackErrorMessage
	case map[string]any:
		return mapMessage(value)
	}

	if err, ok := v.(error); ok {
		var api apiMessenger
		if errors.As(err, &api) {
			if text := api.APIMessage(); text != "" {
				return text
			}
		}
		var msg messenger
		if errors.As(err, &msg) {
			if text := msg.Message(); text != "" {
				return text
			}
		}
		var detail detailer
		if errors.As(err, &detail) {
			if text := detail.ErrorDetail(); text != "" {
				return text
			}
		}
		return FallbackErrorMessage
	}

	if api, ok := v.(apiMessenger); ok && api.APIMessage() != "" {
		return api.APIMessage()
	}
	if msg, ok := v.(messenger); ok && msg.Message() != "" {
		return msg.Message()
	}
	if detail, ok := v.(detailer); ok && detail.ErrorDetail() != "" {
		return detail.ErrorDetail()
	}
	return FallbackErrorMessage
}

// mapMessage 处理解码后的 JSON 错误体
func mapMessage(m map[string]any) string {
	if response, ok := m["response"].(map[string]any); ok {
		if data, ok := response["data"].(map[string]any); ok {
			if text := stringField(data, "message"); text != "" {
				return text
			}
		}
	}
	if text := stringField(m, "message"); text != "" {
		return text
	}
	switch nested := m["error"].(type) {
	case string:
		if strings.TrimSpace(nested) != "" {
			return nested
		}
	case map[string]any:
		if text := stringField(nested, "message"); text != "" {
			return text
		}
	}
	return FallbackErrorMessage
}

func stringField(m map[string]any, key string) string {
	text, _ := m[key].(string)
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
