package game

// PlaybackState 回放全局状态
//
// 由场景创建并注入 PhaseSequencer 和 MessagePlaybackGate，
// 只有这两者会修改它（不使用全局单例）。
//
// 不变量：
//   - PhaseIndex 始终在 [0, 阶段总数) 内（无对局时为 0）
//   - IsSpeaking 为 true 时禁止切换播放状态
//   - PlaybackTimer 非零时表示存在唯一一个待触发的推进计时器
type PlaybackState struct {
	IsPlaying       bool
	IsSpeaking      bool
	MessagesPlaying bool
	PhaseIndex      int
	PlaybackTimer   TimerID
}

// NewPlaybackState 创建初始回放状态（空闲，阶段 0）
func NewPlaybackState() *PlaybackState {
	return &PlaybackState{}
}

// HasPendingAdvance 是否存在待触发的阶段推进计时器
func (ps *PlaybackState) HasPendingAdvance() bool {
	return ps.PlaybackTimer != 0
}
