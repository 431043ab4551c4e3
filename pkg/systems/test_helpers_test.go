package systems

import (
	"fmt"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// testFrameMs 测试中一帧的时长（60 TPS）
const testFrameMs = 1000.0 / 60.0

// fakeHandle 播放固定帧数后结束的动画
type fakeHandle struct {
	remaining int
	updates   int
	elapsedMs float64
}

func (h *fakeHandle) IsPlaying() bool { return h.remaining > 0 }

func (h *fakeHandle) Update(dtMs float64) {
	h.updates++
	h.elapsedMs += dtMs
	if h.remaining > 0 {
		h.remaining--
	}
}

// eventLog 按顺序记录协作者收到的调用
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// fakeChat 记录聊天窗口调用；revealed 为 nil 表示消息闸门开始播放
type fakeChat struct {
	log      *eventLog
	phase    *game.Phase
	revealed []RevealedMessage
	shows    int
	clears   int
}

func (c *fakeChat) ShowMessages(phase *game.Phase, revealed []RevealedMessage) {
	c.shows++
	c.phase = phase
	c.revealed = revealed
	if revealed == nil && c.log != nil {
		c.log.add("gate:%s", phase.Name)
	}
}

func (c *fakeChat) Clear() {
	c.clears++
	c.phase = nil
	c.revealed = nil
}

// fakeFactory 每次过渡返回 handlesPerPhase 个动画，每个动画持续 ticks 帧
type fakeFactory struct {
	log             *eventLog
	handlesPerPhase int
	ticks           int
	placed          []string
	transitions     []string
}

func (f *fakeFactory) CreateAnimationsForPhase(prev, next *game.Phase) []AnimationHandle {
	prevName := "-"
	if prev != nil {
		prevName = prev.Name
	}
	f.transitions = append(f.transitions, prevName+">"+next.Name)
	if f.log != nil {
		f.log.add("anim:%s", next.Name)
	}
	handles := make([]AnimationHandle, 0, f.handlesPerPhase)
	for i := 0; i < f.handlesPerPhase; i++ {
		handles = append(handles, &fakeHandle{remaining: f.ticks})
	}
	return handles
}

func (f *fakeFactory) PlacePhase(phase *game.Phase) {
	if phase != nil {
		f.placed = append(f.placed, phase.Name)
	}
}

type fakeStandings struct {
	visible bool
	phase   *game.Phase
	shows   int
}

func (s *fakeStandings) Show(phase *game.Phase) {
	s.visible = true
	s.phase = phase
	s.shows++
}

func (s *fakeStandings) Hide() { s.visible = false }

type fakeControls struct {
	enabled bool
	calls   int
}

func (c *fakeControls) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.calls++
}

type fakePanner struct {
	starts int
	pauses int
}

func (p *fakePanner) StartPan() { p.starts++ }
func (p *fakePanner) PausePan() { p.pauses++ }

// fakeKeys 本帧"刚按下"的按键集合
type fakeKeys struct {
	pressed map[ebiten.Key]bool
}

func (k *fakeKeys) IsKeyJustPressed(key ebiten.Key) bool { return k.pressed[key] }

func (k *fakeKeys) press(keys ...ebiten.Key) {
	k.pressed = make(map[ebiten.Key]bool)
	for _, key := range keys {
		k.pressed[key] = true
	}
}

// fakePointer 可控的鼠标输入
type fakePointer struct {
	x, y     int
	dragging bool
	wheelY   float64
}

func (p *fakePointer) CursorPosition() (int, int) { return p.x, p.y }
func (p *fakePointer) IsDragging() bool           { return p.dragging }
func (p *fakePointer) Wheel() (float64, float64)  { return 0, p.wheelY }

// newTestGame 生成 n 个阶段的对局，messages[i] 为第 i 个阶段的消息数
func newTestGame(n int, messages map[int]int) *game.GameData {
	names := []string{"S1901M", "F1901M", "W1901A", "S1902M", "F1902M", "W1902A", "S1903M"}
	gd := &game.GameData{ID: "test"}
	for i := 0; i < n; i++ {
		p := game.Phase{Name: names[i%len(names)]}
		for m := 0; m < messages[i]; m++ {
			p.Messages = append(p.Messages, game.Message{
				Sender:    "FRANCE",
				Recipient: "ENGLAND",
				Message:   fmt.Sprintf("message %d", m),
				Phase:     p.Name,
			})
		}
		gd.Phases = append(gd.Phases, p)
	}
	return gd
}

// sequencerHarness 组装序列器和假协作者，tick 模拟场景的帧顺序
type sequencerHarness struct {
	cfg       *config.PlaybackConfig
	log       *eventLog
	state     *game.PlaybackState
	scheduler *game.Scheduler
	set       *UnitAnimationSet
	gate      *MessagePlaybackGate
	narration *NarrationSystem
	chat      *fakeChat
	factory   *fakeFactory
	standings *fakeStandings
	controls  *fakeControls
	camera    *fakePanner
	seq       *PhaseSequencer
}

func newSequencerHarness(gd *game.GameData, handlesPerPhase int) *sequencerHarness {
	h := &sequencerHarness{
		cfg:       config.DefaultPlaybackConfig(),
		log:       &eventLog{},
		state:     game.NewPlaybackState(),
		scheduler: game.NewScheduler(),
		standings: &fakeStandings{},
		controls:  &fakeControls{},
		camera:    &fakePanner{},
	}
	h.chat = &fakeChat{log: h.log}
	h.factory = &fakeFactory{log: h.log, handlesPerPhase: handlesPerPhase, ticks: 3}
	h.set = NewUnitAnimationSet(h.state)
	h.gate = NewMessagePlaybackGate(h.state, h.scheduler, h.chat, h.cfg.Messages)
	h.narration = NewNarrationSystem(h.state, h.scheduler, h.cfg.Narration)
	h.seq = NewPhaseSequencer(SequencerDeps{
		State:      h.state,
		Scheduler:  h.scheduler,
		Animations: h.set,
		Factory:    h.factory,
		Gate:       h.gate,
		Camera:     h.camera,
		Standings:  h.standings,
		Controls:   h.controls,
		Narration:  h.narration,
	}, h.cfg.PlaybackSpeedMs)
	if gd != nil {
		h.seq.LoadGame(gd)
	}
	return h
}

// tick 一帧：定时器 → 消息闸门 → 单位动画
func (h *sequencerHarness) tick() {
	h.scheduler.Advance(testFrameMs)
	h.gate.Update()
	h.set.Update(testFrameMs)
}

// runUntil 推进直到 cond 成立，返回是否在 maxTicks 内成立
func (h *sequencerHarness) runUntil(cond func() bool, maxTicks int) bool {
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return true
		}
		h.tick()
	}
	return cond()
}
