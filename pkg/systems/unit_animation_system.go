package systems

import (
	"log"

	"github.com/decker502/diplomacy-playback/pkg/game"
)

// AnimationHandle 一个进行中的单位动画（移动、撤退、建造、解散）
//
// 由动画工厂创建，UnitAnimationSet 独占持有；IsPlaying 返回 false 后被移出集合，不会复用。
type AnimationHandle interface {
	// IsPlaying 动画是否仍在播放
	IsPlaying() bool

	// Update 推进 dtMs 毫秒
	Update(dtMs float64)
}

// UnitAnimationSet 单位动画集合
//
// 每帧先过滤掉已结束的动画（无副作用），再按插入顺序推进剩余动画。
// 集合从非空变为空、且处于自动播放、且没有消息在播放时，调用一次 drain 回调；
// 之后集合保持为空不会重复触发，直到下一次 Replace。
type UnitAnimationSet struct {
	state     *game.PlaybackState
	handles   []AnimationHandle
	onDrained func()
}

// NewUnitAnimationSet 创建单位动画集合
func NewUnitAnimationSet(state *game.PlaybackState) *UnitAnimationSet {
	return &UnitAnimationSet{state: state}
}

// SetDrainHandler 设置动画全部结束时的回调（通常是 PhaseSequencer.OnAnimationsDrained）
func (s *UnitAnimationSet) SetDrainHandler(fn func()) {
	s.onDrained = fn
}

// Replace 用新阶段的动画替换集合内容
func (s *UnitAnimationSet) Replace(handles []AnimationHandle) {
	s.handles = append(s.handles[:0:0], handles...)
	log.Printf("[UnitAnimationSet] %d unit animations queued", len(s.handles))
}

// Clear 清空集合，不触发 drain 回调
func (s *UnitAnimationSet) Clear() {
	s.handles = nil
}

// Len 当前动画数量
func (s *UnitAnimationSet) Len() int {
	return len(s.handles)
}

// IsEmpty 集合是否为空
func (s *UnitAnimationSet) IsEmpty() bool {
	return len(s.handles) == 0
}

// Update 推进一帧（dtMs 毫秒），返回本帧是否触发了 drain 回调
func (s *UnitAnimationSet) Update(dtMs float64) bool {
	if len(s.handles) == 0 {
		return false
	}

	previousCount := len(s.handles)
	alive := s.handles[:0]
	for _, h := range s.handles {
		if h.IsPlaying() {
			alive = append(alive, h)
		}
	}
	for i := len(alive); i < previousCount; i++ {
		s.handles[i] = nil
	}
	s.handles = alive

	if len(s.handles) == 0 {
		log.Printf("[UnitAnimationSet] All unit animations have completed")
	}

	for _, h := range s.handles {
		h.Update(dtMs)
	}

	if len(s.handles) == 0 && s.state.IsPlaying && !s.state.MessagesPlaying {
		if s.onDrained != nil {
			s.onDrained()
		}
		return true
	}
	return false
}
