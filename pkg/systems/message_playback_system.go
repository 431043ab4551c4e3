package systems

import (
	"log"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
)

// RevealedMessage 聊天窗口中一条（可能只显示了一部分的）消息
type RevealedMessage struct {
	Message game.Message
	// Text 当前已显示的文本
	Text string
	// Complete 是否已完整显示
	Complete bool
}

// ChatWindows 聊天窗口协作者：只做显示，不向核心返回数据
type ChatWindows interface {
	// ShowMessages 显示阶段 phase 的消息列表（revealed 为已显示部分）
	ShowMessages(phase *game.Phase, revealed []RevealedMessage)
	// Clear 清空聊天窗口
	Clear()
}

// MessagePlaybackGate 消息播放闸门
//
// 阶段有外交消息时，先逐字显示全部消息（期间 MessagesPlaying = true），
// 全部显示完后清除标记并调用完成回调（开始阶段动画）。
// 没有消息的阶段完全绕过闸门。
//
// 状态机：Idle → Revealing ⇄ Holding → Idle
type MessagePlaybackGate struct {
	state     *game.PlaybackState
	scheduler *game.Scheduler
	chat      ChatWindows
	cfg       config.MessageConfig

	active     bool
	phase      *game.Phase
	index      int // 当前消息索引
	revealed   int // 当前消息已显示的字符数（rune）
	holdTimer  game.TimerID
	onComplete func()
	history    []RevealedMessage
}

// NewMessagePlaybackGate 创建消息播放闸门
func NewMessagePlaybackGate(state *game.PlaybackState, scheduler *game.Scheduler, chat ChatWindows, cfg config.MessageConfig) *MessagePlaybackGate {
	return &MessagePlaybackGate{
		state:     state,
		scheduler: scheduler,
		chat:      chat,
		cfg:       cfg,
	}
}

// Play 开始逐字播放 phase 的消息
//
// 返回 false 表示阶段没有消息，闸门被绕过（不会调用 onComplete，也不修改状态）。
func (g *MessagePlaybackGate) Play(phase *game.Phase, onComplete func()) bool {
	if !phase.HasMessages() {
		return false
	}
	g.Cancel()

	g.active = true
	g.phase = phase
	g.index = 0
	g.revealed = 0
	g.onComplete = onComplete
	g.history = make([]RevealedMessage, 0, len(phase.Messages))
	g.state.MessagesPlaying = true

	log.Printf("[MessagePlaybackGate] Playing %d messages from phase %s", len(phase.Messages), phase.Name)
	g.chat.ShowMessages(phase, nil)
	return true
}

// ShowAll 立即完整显示 phase 的全部消息（手动翻阶段时使用，不设置 MessagesPlaying）
func (g *MessagePlaybackGate) ShowAll(phase *game.Phase) {
	if phase == nil {
		g.chat.Clear()
		return
	}
	all := make([]RevealedMessage, 0, len(phase.Messages))
	for _, m := range phase.Messages {
		all = append(all, RevealedMessage{Message: m, Text: m.Message, Complete: true})
	}
	g.chat.ShowMessages(phase, all)
}

// Cancel 中止正在进行的播放（停止回放时调用），不调用完成回调
func (g *MessagePlaybackGate) Cancel() {
	if g.holdTimer != 0 {
		g.scheduler.Cancel(g.holdTimer)
		g.holdTimer = 0
	}
	if g.active {
		log.Printf("[MessagePlaybackGate] Message playback cancelled")
	}
	g.active = false
	g.onComplete = nil
}

// IsActive 是否正在播放消息
func (g *MessagePlaybackGate) IsActive() bool {
	return g.active
}

// Update 每帧推进逐字显示
func (g *MessagePlaybackGate) Update() {
	if !g.active || g.holdTimer != 0 {
		return
	}

	msg := g.phase.Messages[g.index]
	runes := []rune(msg.Message)
	g.revealed += g.cfg.CharsPerTick
	if g.cfg.CharsPerTick <= 0 || g.revealed > len(runes) {
		g.revealed = len(runes)
	}
	complete := g.revealed >= len(runes)

	current := RevealedMessage{Message: msg, Text: string(runes[:g.revealed]), Complete: complete}
	g.chat.ShowMessages(g.phase, append(g.history[:len(g.history):len(g.history)], current))

	if complete {
		g.history = append(g.history, current)
		g.holdTimer = g.scheduler.AfterFunc(g.cfg.HoldMs, g.nextMessage)
	}
}

// nextMessage 停留结束后进入下一条消息或结束播放
func (g *MessagePlaybackGate) nextMessage() {
	g.holdTimer = 0
	g.index++
	g.revealed = 0
	if g.index < len(g.phase.Messages) {
		return
	}

	g.active = false
	g.state.MessagesPlaying = false
	log.Printf("[MessagePlaybackGate] Finished %d messages for phase %s", len(g.phase.Messages), g.phase.Name)

	onComplete := g.onComplete
	g.onComplete = nil
	if onComplete != nil {
		onComplete()
	}
}
