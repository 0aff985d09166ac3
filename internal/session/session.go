package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 角色常量，与 authz 内置角色一致
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Claims 控制台关心的令牌声明
type Claims struct {
	Subject   string
	Name      string
	Role      string
	ExpiresAt *time.Time
	// Verified 签名已用本地密钥校验
	Verified  bool
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Session 一个已登录的控制台会话
// 令牌由调用方显式持有并传给目录客户端，生命周期从登录到登出或失效
type Session struct {
	id        string
	token     string
	claims    Claims
	now       func() time.Time
	createdAt time.Time

	mu          sync.Mutex
	lastSeen    time.Time
	invalidated bool
	reason      string
	callbacks   []func(reason string)
}

// Option 会话配置项
type Option func(*options)

type options struct {
	verifyKey []byte
	now       func() time.Time
}

// WithVerifyKey 配置后按 HS256 校验签名；未配置时只解析不校验，角色固定为 viewer
func WithVerifyKey(secret string) Option {
	return func(o *options) {
		if s := strings.TrimSpace(secret); s != "" {
			o.verifyKey = []byte(s)
		}
	}
}

// WithClock 指定时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New 从访问令牌创建会话
// 非 JWT 的不透明令牌同样接受，此时角色为 viewer 且无过期时间
func New(token string, opts ...Option) (*Session, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims, err := parseClaims(token, o)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !o.now().Before(*claims.ExpiresAt) {
		return nil, ErrExpired
	}

	now := o.now()
	return &Session{
		id:        uuid.NewString(),
		token:     token,
		claims:    claims,
		now:       o.now,
		createdAt: now,
		lastSeen:  now,
	}, nil
}

func parseClaims(token string, o options) (Claims, error) {
	if strings.Count(token, ".") != 2 {
		if o.verifyKey != nil {
			return Claims{}, ErrTokenInvalid
		}
		return Claims{Role: RoleViewer}, nil
	}

	parsed := &tokenClaims{}
	if o.verifyKey != nil {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(o.now),
		)
		token, err := parser.ParseWithClaims(token, parsed, func(token *jwt.Token) (interface{}, error) {
			return o.verifyKey, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Claims{}, ErrExpired
			}
			return Claims{}, ErrTokenInvalid
		}
		if !token.Valid {
			return Claims{}, ErrTokenInvalid
		}
	} else {
		unverified, _, err := jwt.NewParser().ParseUnverified(token, parsed)
		if err != nil {
			return Claims{}, ErrTokenInvalid
		}
		if unverified.Method == nil || unverified.Method.Alg() == "none" {
			return Claims{}, ErrTokenInvalid
		}
	}

	claims := Claims{
		Subject:  parsed.Subject,
		Name:     firstNonEmpty(parsed.Name, parsed.Username),
		Role:     NormalizeRole(parsed.Role),
		Verified: o.verifyKey != nil,
	}
	// 未验签的令牌不能提升权限
	if !claims.Verified {
		claims.Role = RoleViewer
	}
	if parsed.ExpiresAt != nil {
		exp := parsed.ExpiresAt.Time
		claims.ExpiresAt = &exp
	}
	return claims, nil
}

// NormalizeRole 未知或空角色降级为 viewer
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin, "super_admin", "superadmin":
		return RoleAdmin
	case RoleEditor, "staff":
		return RoleEditor
	default:
		return RoleViewer
	}
}

// ID 会话 ID
func (s *Session) ID() string {
	return s.id
}

// Claims 令牌声明
func (s *Session) Claims() Claims {
	return s.claims
}

// Role 会话角色
func (s *Session) Role() string {
	return s.claims.Role
}

// CreatedAt 创建时间
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Token 返回可用令牌；已失效或已过期时返回错误，过期会触发失效回调
func (s *Session) Token() (string, error) {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return "", ErrInvalidated
	}
	expired := s.claims.ExpiresAt != nil && !s.now().Before(*s.claims.ExpiresAt)
	s.mu.Unlock()

	if expired {
		s.Invalidate("token expired")
		return "", ErrExpired
	}
	return s.token, nil
}

// Invalidate 使会话失效，回调只触发一次
func (s *Session) Invalidate(reason string) {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.reason = reason
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(reason)
	}
}

// OnInvalidate 注册失效回调；会话已失效时立即调用
func (s *Session) OnInvalidate(fn func(reason string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.invalidated {
		reason := s.reason
		s.mu.Unlock()
		fn(reason)
		return
	}
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}

// Valid 会话是否仍可用
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invalidated {
		return false
	}
	return s.claims.ExpiresAt == nil || s.now().Before(*s.claims.ExpiresAt)
}

// InvalidationReason 失效原因
func (s *Session) InvalidationReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Touch 记录最近一次活动
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// LastSeen 最近一次活动时间
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
