package systems

import (
	"log"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
)

// NarrationSystem 阶段总结旁白
//
// 没有语音合成，旁白以字幕形式显示 DurationMs 毫秒；
// 显示期间 PlaybackState.IsSpeaking = true，阶段推进会等待旁白结束。
type NarrationSystem struct {
	state     *game.PlaybackState
	scheduler *game.Scheduler
	cfg       config.NarrationConfig

	caption string
	timer   game.TimerID
	onDone  func()
}

// NewNarrationSystem 创建旁白系统
func NewNarrationSystem(state *game.PlaybackState, scheduler *game.Scheduler, cfg config.NarrationConfig) *NarrationSystem {
	return &NarrationSystem{state: state, scheduler: scheduler, cfg: cfg}
}

// Enabled 旁白是否开启
func (n *NarrationSystem) Enabled() bool {
	return n.cfg.Enabled
}

// SetEnabled 开关旁白
// 关闭时提前结束正在显示的字幕并照常调用完成回调，自动播放不会停住
func (n *NarrationSystem) SetEnabled(enabled bool) {
	n.cfg.Enabled = enabled
	if !enabled && n.timer != 0 {
		n.scheduler.Cancel(n.timer)
		n.finish()
	}
	log.Printf("[NarrationSystem] Narration enabled: %v", enabled)
}

// Speak 显示旁白字幕，结束后调用 onDone
//
// 文本为空时不设置 IsSpeaking，直接调用 onDone。
func (n *NarrationSystem) Speak(text string, onDone func()) {
	n.Stop()
	if text == "" {
		if onDone != nil {
			onDone()
		}
		return
	}

	n.caption = text
	n.onDone = onDone
	n.state.IsSpeaking = true
	n.timer = n.scheduler.AfterFunc(n.cfg.DurationMs, n.finish)
	log.Printf("[NarrationSystem] Speaking %d characters for %.0fms", len([]rune(text)), n.cfg.DurationMs)
}

// Stop 中止旁白，不调用完成回调
func (n *NarrationSystem) Stop() {
	if n.timer != 0 {
		n.scheduler.Cancel(n.timer)
		n.timer = 0
	}
	n.caption = ""
	n.onDone = nil
	n.state.IsSpeaking = false
}

// Caption 当前字幕文本，没有旁白时为空
func (n *NarrationSystem) Caption() string {
	return n.caption
}

func (n *NarrationSystem) finish() {
	n.timer = 0
	n.caption = ""
	n.state.IsSpeaking = false

	onDone := n.onDone
	n.onDone = nil
	if onDone != nil {
		onDone()
	}
}
