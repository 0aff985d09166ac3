package console

import "sync"

// LoginPath 会话失效后的跳转目标
const LoginPath = "/login"

// PendingNavigator 记录待执行的跳转，由渲染层轮询取走
// 多次跳转只保留最后一次
type PendingNavigator struct {
	mu      sync.Mutex
	pending string
	history []string
}

// Navigate 设置待跳转路径
func (n *PendingNavigator) Navigate(path string) {
	if path == "" {
		return
	}
	n.mu.Lock()
	n.pending = path
	n.history = append(n.history, path)
	if len(n.history) > 20 {
		n.history = n.history[len(n.history)-20:]
	}
	n.mu.Unlock()
}

// Pop 取走待跳转路径，没有时返回空
func (n *PendingNavigator) Pop() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	path := n.pending
	n.pending = ""
	return path
}

// Peek 查看待跳转路径
func (n *PendingNavigator) Peek() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// History 最近的跳转记录
func (n *PendingNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
