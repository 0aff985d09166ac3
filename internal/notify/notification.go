package notify

import "time"

// Kind 通知类型
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Position 通知在屏幕上的锚点
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
)

const (
	// DefaultDuration 通知默认展示时长
	DefaultDuration = 5000 * time.Millisecond
	// HideGrace 隐藏后到移除前的退场动画时间
	HideGrace = 300 * time.Millisecond
)

// Notification 一条活动中的通知
type Notification struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Message    string        `json:"message,omitempty"`
	Kind       Kind          `json:"kind"`
	Position   Position      `json:"position"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Visible    bool          `json:"visible"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Spec 创建通知的参数
type Spec struct {
	Title    string
	Message  string
	Kind     Kind
	Position Position
	Duration time.Duration // 0 表示使用默认时长
}

// Notifier 表单与加载器依赖的通知出口
type Notifier interface {
	Success(title, message string, position ...Position) string
	Error(title, message string, position ...Position) string
	Warning(title, message string, position ...Position) string
	Info(title, message string, position ...Position) string
}

// IsValidKind 判断通知类型是否合法
func IsValidKind(kind Kind) bool {
	switch kind {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	default:
		return false
	}
}

// NormalizePosition 非法位置回退到右上角
func NormalizePosition(position Position) Position {
	switch position {
	case PositionTopRight, PositionTopLeft, PositionTopCenter,
		PositionBottomRight, PositionBottomLeft, PositionBottomCenter:
		return position
	default:
		return PositionTopRight
	}
}
