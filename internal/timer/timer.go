package timer

import "time"

// Timer 可取消的延迟任务
type Timer interface {
	Stop() bool
}

// Scheduler 延迟回调调度器
// 生产环境使用 time.AfterFunc，测试中使用 Fake 手动推进时间
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

// Real 返回基于 time.AfterFunc 的调度器
func Real() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// OrReal 为空时回退到真实调度器
func OrReal(s Scheduler) Scheduler {
	if s == nil {
		return Real()
	}
	return s
}
