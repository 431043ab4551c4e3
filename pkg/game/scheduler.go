package game

import "sort"

// TimerID 延迟回调句柄，0 表示无效
type TimerID uint64

// scheduledCall 一条待触发的延迟回调
type scheduledCall struct {
	id       TimerID
	dueMs    float64
	callback func()
}

// Scheduler 单线程延迟回调队列
//
// 以游戏时间（毫秒）计时，由帧循环调用 Advance 推进，
// 到期的回调在同一帧内同步执行，因此不需要任何锁。
type Scheduler struct {
	nowMs  float64
	nextID TimerID
	calls  []scheduledCall
	// inFlight 本次 Advance 中已到期、尚未执行的回调，仍可被 Cancel
	inFlight map[TimerID]bool
}

// NewScheduler 创建延迟回调队列
func NewScheduler() *Scheduler {
	return &Scheduler{nextID: 1, inFlight: make(map[TimerID]bool)}
}

// AfterFunc 在 delayMs 毫秒后执行 callback，返回可取消的句柄
func (s *Scheduler) AfterFunc(delayMs float64, callback func()) TimerID {
	if delayMs < 0 {
		delayMs = 0
	}
	id := s.nextID
	s.nextID++
	s.calls = append(s.calls, scheduledCall{id: id, dueMs: s.nowMs + delayMs, callback: callback})
	return id
}

// Cancel 取消尚未触发的回调，返回是否确实取消了一个回调
func (s *Scheduler) Cancel(id TimerID) bool {
	if id == 0 {
		return false
	}
	for i, c := range s.calls {
		if c.id == id {
			s.calls = append(s.calls[:i], s.calls[i+1:]...)
			return true
		}
	}
	if s.inFlight[id] {
		delete(s.inFlight, id)
		return true
	}
	return false
}

// Pending 返回尚未触发的回调数量
func (s *Scheduler) Pending() int {
	return len(s.calls)
}

// isPending 检查句柄是否仍在等待
func (s *Scheduler) isPending(id TimerID) bool {
	for _, c := range s.calls {
		if c.id == id {
			return true
		}
	}
	return false
}

// now 当前游戏时间（毫秒）
func (s *Scheduler) now() float64 {
	return s.nowMs
}

// Advance 推进游戏时间并执行所有到期回调（按到期时间、创建顺序）
//
// 回调内可以继续 AfterFunc 或 Cancel；新建的回调即使延迟为 0
// 也要等到下一次 Advance 才会触发。
func (s *Scheduler) Advance(dtMs float64) {
	s.nowMs += dtMs

	due := make([]scheduledCall, 0)
	remaining := s.calls[:0]
	for _, c := range s.calls {
		if c.dueMs <= s.nowMs {
			due = append(due, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	s.calls = remaining

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].dueMs != due[j].dueMs {
			return due[i].dueMs < due[j].dueMs
		}
		return due[i].id < due[j].id
	})
	for _, c := range due {
		s.inFlight[c.id] = true
	}
	for _, c := range due {
		if !s.inFlight[c.id] {
			continue
		}
		delete(s.inFlight, c.id)
		c.callback()
	}
}
