package systems

import (
	"fmt"
	"log"

	"github.com/decker502/diplomacy-playback/pkg/game"
)

// AnimationFactory 单位动画工厂（棋盘几何协作者）
type AnimationFactory interface {
	// CreateAnimationsForPhase 为 prev → next 的阶段过渡创建单位动画
	// prev 为 nil 时（第一个阶段）返回空集合
	CreateAnimationsForPhase(prev, next *game.Phase) []AnimationHandle

	// PlacePhase 立即把棋盘摆成 phase 的局面（无插值）
	PlacePhase(phase *game.Phase)
}

// StandingsOverlay 积分榜叠加层
type StandingsOverlay interface {
	Show(phase *game.Phase)
	Hide()
}

// ManualControls 手动上一阶段/下一阶段控制
type ManualControls interface {
	SetEnabled(enabled bool)
}

// CameraPanner 自动运镜控制
type CameraPanner interface {
	StartPan()
	PausePan()
}

// SequencerState 阶段序列器的状态
type SequencerState int

const (
	// SequencerIdle 未在自动播放
	SequencerIdle SequencerState = iota
	// SequencerPlaying 自动播放中，消息或动画进行中
	SequencerPlaying
	// SequencerScheduled 动画已结束，等待延迟计时器推进下一阶段
	SequencerScheduled
)

// String 返回状态名
func (s SequencerState) String() string {
	switch s {
	case SequencerIdle:
		return "Idle"
	case SequencerPlaying:
		return "Playing"
	case SequencerScheduled:
		return "Scheduled"
	default:
		return fmt.Sprintf("SequencerState(%d)", int(s))
	}
}

// PlaybackStatus 回放状态快照（信息面板、剪贴板导出使用）
type PlaybackStatus struct {
	State           SequencerState
	PhaseIndex      int
	PhaseCount      int
	PhaseName       string
	SpeedMs         int
	MessagesPlaying bool
	Speaking        bool
	Summary         string
}

// String 单行描述
func (st PlaybackStatus) String() string {
	if st.PhaseCount == 0 {
		return "No game loaded"
	}
	return fmt.Sprintf("Phase %d/%d %s | %s | %dms", st.PhaseIndex+1, st.PhaseCount, st.PhaseName, st.State, st.SpeedMs)
}

// SequencerDeps 阶段序列器的协作者
type SequencerDeps struct {
	State      *game.PlaybackState
	Scheduler  *game.Scheduler
	Animations *UnitAnimationSet
	Factory    AnimationFactory
	Gate       *MessagePlaybackGate

	// 以下协作者可以为 nil
	Camera    CameraPanner
	Standings StandingsOverlay
	Controls  ManualControls
	Narration *NarrationSystem
	Settings  *game.SettingsManager
}

// PhaseSequencer 阶段序列器
//
// 决定显示哪个阶段、是否处于自动播放、何时推进到下一阶段。
// 自动推进只由单位动画集合的 drain 事件触发，在 playbackSpeed 毫秒后执行；
// 任何时刻最多只有一个待触发的推进计时器，重新调度前总是先取消旧计时器。
type PhaseSequencer struct {
	SequencerDeps

	gameData *game.GameData
	speedMs  int
}

// NewPhaseSequencer 创建阶段序列器
func NewPhaseSequencer(deps SequencerDeps, speedMs int) *PhaseSequencer {
	s := &PhaseSequencer{SequencerDeps: deps, speedMs: speedMs}
	if deps.Settings != nil {
		s.speedMs = deps.Settings.PlaybackSpeedMs()
	}
	if deps.Animations != nil {
		deps.Animations.SetDrainHandler(s.OnAnimationsDrained)
	}
	return s
}

// GameData 当前对局，未加载时为 nil
func (s *PhaseSequencer) GameData() *game.GameData {
	return s.gameData
}

// CurrentPhase 当前显示的阶段
func (s *PhaseSequencer) CurrentPhase() *game.Phase {
	return s.gameData.PhaseAt(s.State.PhaseIndex)
}

// PlaybackSpeedMs 当前推进延迟
func (s *PhaseSequencer) PlaybackSpeedMs() int {
	return s.speedMs
}

// LoadGame 加载新对局并显示第一个阶段
func (s *PhaseSequencer) LoadGame(gd *game.GameData) {
	if s.State.IsPlaying {
		s.stopPlayback()
	}
	if s.Narration != nil {
		s.Narration.Stop()
	}

	s.gameData = gd
	s.State.PhaseIndex = 0
	s.Animations.Clear()

	phase := s.CurrentPhase()
	s.Factory.PlacePhase(phase)
	s.Gate.ShowAll(phase)
	if s.Standings != nil {
		s.Standings.Hide()
	}
	if s.Controls != nil {
		s.Controls.SetEnabled(true)
	}
	log.Printf("[PhaseSequencer] Loaded game with %d phases", gd.PhaseCount())
}

// TogglePlayback 开始/暂停自动播放
//
// 少于 2 个阶段或正在旁白时忽略。
func (s *PhaseSequencer) TogglePlayback() {
	if s.gameData.PhaseCount() <= 1 {
		log.Printf("[PhaseSequencer] Ignoring toggle: need at least 2 phases")
		return
	}
	if s.State.IsSpeaking {
		log.Printf("[PhaseSequencer] Ignoring toggle while speaking")
		return
	}

	if s.State.IsPlaying {
		s.stopPlayback()
		return
	}
	s.startPlayback()
}

func (s *PhaseSequencer) startPlayback() {
	// 停在最后一个阶段时从头开始
	if s.State.PhaseIndex >= s.gameData.PhaseCount()-1 {
		s.ResetToPhase(0)
	}

	s.State.IsPlaying = true
	if s.Controls != nil {
		s.Controls.SetEnabled(false)
	}
	log.Printf("[PhaseSequencer] Starting playback...")

	if s.Camera != nil {
		s.Camera.StartPan()
	}
	if s.Standings != nil {
		s.Standings.Hide()
	}

	phase := s.CurrentPhase()
	if s.Gate.Play(phase, s.DisplayPhaseWithAnimation) {
		log.Printf("[PhaseSequencer] Playing %d messages from phase %d/%d", len(phase.Messages), s.State.PhaseIndex+1, s.gameData.PhaseCount())
		return
	}
	log.Printf("[PhaseSequencer] No messages for this phase, proceeding to animations")
	s.DisplayPhaseWithAnimation()
}

func (s *PhaseSequencer) stopPlayback() {
	s.State.IsPlaying = false
	if s.Camera != nil {
		s.Camera.PausePan()
	}
	s.cancelPendingAdvance()
	s.Gate.Cancel()
	s.State.MessagesPlaying = false
	if s.Controls != nil {
		s.Controls.SetEnabled(true)
	}
	log.Printf("[PhaseSequencer] Playback paused at phase %d", s.State.PhaseIndex+1)
}

// DisplayPhaseWithAnimation 为当前阶段创建过渡动画并放入单位动画集合
//
// 过渡由上一阶段的命令驱动；没有动画时（第一个阶段、无命令）直接视为动画已结束。
func (s *PhaseSequencer) DisplayPhaseWithAnimation() {
	next := s.CurrentPhase()
	if next == nil {
		return
	}
	prev := s.gameData.PhaseAt(s.State.PhaseIndex - 1)
	if prev != nil {
		s.Factory.PlacePhase(prev)
	} else {
		s.Factory.PlacePhase(next)
	}

	handles := s.Factory.CreateAnimationsForPhase(prev, next)
	s.Animations.Replace(handles)
	if len(handles) == 0 {
		if prev != nil {
			s.Factory.PlacePhase(next)
		}
		s.OnAnimationsDrained()
	}
}

// AdvanceToNextPhase 推进到下一阶段
//
// 自动播放和手动"下一阶段"共用；手动调用时会先取消待触发的自动推进，避免重复推进。
// 已是最后一个阶段时结束播放并显示积分榜。
func (s *PhaseSequencer) AdvanceToNextPhase() {
	if s.gameData == nil {
		return
	}
	s.cancelPendingAdvance()

	if s.State.PhaseIndex >= s.gameData.PhaseCount()-1 {
		log.Printf("[PhaseSequencer] Reached the end of the game")
		if s.State.IsPlaying {
			s.stopPlayback()
		}
		if s.Standings != nil {
			s.Standings.Show(s.CurrentPhase())
		}
		return
	}

	s.State.PhaseIndex++
	next := s.CurrentPhase()
	log.Printf("[PhaseSequencer] Advancing to phase %d/%d (%s)", s.State.PhaseIndex+1, s.gameData.PhaseCount(), next.Name)

	if s.State.IsPlaying && s.Gate.Play(next, s.DisplayPhaseWithAnimation) {
		return
	}
	s.Gate.ShowAll(next)
	s.DisplayPhaseWithAnimation()
}

// ResetToPhase 直接跳转到指定阶段（无插值），自动播放期间拒绝
func (s *PhaseSequencer) ResetToPhase(index int) bool {
	if s.State.IsPlaying {
		log.Printf("[PhaseSequencer] Cannot reset to phase %d during playback", index+1)
		return false
	}
	phase := s.gameData.PhaseAt(index)
	if phase == nil {
		log.Printf("[PhaseSequencer] Phase index %d out of range", index)
		return false
	}

	s.Animations.Clear()
	s.State.PhaseIndex = index
	s.Factory.PlacePhase(phase)
	s.Gate.ShowAll(phase)
	if s.Standings != nil {
		s.Standings.Hide()
	}
	log.Printf("[PhaseSequencer] Reset to phase %d/%d (%s)", index+1, s.gameData.PhaseCount(), phase.Name)
	return true
}

// PreviousPhase 手动回到上一阶段
func (s *PhaseSequencer) PreviousPhase() bool {
	if s.State.PhaseIndex <= 0 {
		return false
	}
	return s.ResetToPhase(s.State.PhaseIndex - 1)
}

// OnAnimationsDrained 单位动画全部结束
//
// 自动播放且没有消息在播放时，（可选地朗读阶段总结后）调度下一次推进。
func (s *PhaseSequencer) OnAnimationsDrained() {
	if !s.State.IsPlaying || s.State.MessagesPlaying {
		return
	}
	phase := s.CurrentPhase()
	if s.Narration != nil && s.Narration.Enabled() && phase != nil && phase.Summary != "" {
		s.Narration.Speak(phase.Summary, s.scheduleAdvance)
		return
	}
	s.scheduleAdvance()
}

// scheduleAdvance 在 playbackSpeed 毫秒后推进，先取消旧计时器
func (s *PhaseSequencer) scheduleAdvance() {
	if !s.State.IsPlaying {
		return
	}
	s.cancelPendingAdvance()
	log.Printf("[PhaseSequencer] Scheduling next phase in %dms", s.speedMs)
	s.State.PlaybackTimer = s.Scheduler.AfterFunc(float64(s.speedMs), func() {
		s.State.PlaybackTimer = 0
		s.AdvanceToNextPhase()
	})
}

func (s *PhaseSequencer) cancelPendingAdvance() {
	if s.State.PlaybackTimer == 0 {
		return
	}
	s.Scheduler.Cancel(s.State.PlaybackTimer)
	s.State.PlaybackTimer = 0
}

// SetPlaybackSpeed 修改推进延迟
//
// 有待触发的推进计时器时取消并按新延迟重新调度，不影响进行中的动画。
func (s *PhaseSequencer) SetPlaybackSpeed(ms int) {
	if s.Settings != nil {
		s.Settings.SetPlaybackSpeed(ms)
		ms = s.Settings.PlaybackSpeedMs()
	} else if ms < 0 {
		ms = 0
	}
	s.speedMs = ms
	log.Printf("[PhaseSequencer] Playback speed set to %dms", ms)

	if s.State.IsPlaying && s.State.HasPendingAdvance() {
		s.scheduleAdvance()
	}
}

// SequencerState 当前状态（Scheduled 由是否存在推进计时器推导）
func (s *PhaseSequencer) SequencerState() SequencerState {
	switch {
	case !s.State.IsPlaying:
		return SequencerIdle
	case s.State.HasPendingAdvance():
		return SequencerScheduled
	default:
		return SequencerPlaying
	}
}

// Status 返回状态快照
func (s *PhaseSequencer) Status() PlaybackStatus {
	st := PlaybackStatus{
		State:           s.SequencerState(),
		PhaseIndex:      s.State.PhaseIndex,
		PhaseCount:      s.gameData.PhaseCount(),
		SpeedMs:         s.speedMs,
		MessagesPlaying: s.State.MessagesPlaying,
		Speaking:        s.State.IsSpeaking,
	}
	if phase := s.CurrentPhase(); phase != nil {
		st.PhaseName = phase.Name
		st.Summary = phase.Summary
	}
	return st
}
