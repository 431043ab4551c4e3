package systems

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestInput(h *sequencerHarness) (*InputSystem, *fakeKeys) {
	keys := &fakeKeys{}
	input := NewInputSystem(h.seq, h.narration, nil, []int{250, 500, 1000}, keys)
	return input, keys
}

// TestInputSystem_Space 空格切换自动播放
func TestInputSystem_Space(t *testing.T) {
	h := newSequencerHarness(newTestGame(3, nil), 1)
	input, keys := newTestInput(h)

	keys.press(ebiten.KeySpace)
	input.Update()
	if !h.state.IsPlaying {
		t.Fatal("space should start playback")
	}

	keys.press()
	input.Update()
	if !h.state.IsPlaying {
		t.Fatal("no key pressed, playback should keep running")
	}

	keys.press(ebiten.KeySpace)
	input.Update()
	if h.state.IsPlaying {
		t.Error("space should stop playback")
	}
}

// TestInputSystem_Arrows 方向键手动翻阶段，禁用时忽略
func TestInputSystem_Arrows(t *testing.T) {
	h := newSequencerHarness(newTestGame(3, nil), 0)
	input, keys := newTestInput(h)

	keys.press(ebiten.KeyArrowRight)
	input.Update()
	if h.state.PhaseIndex != 1 {
		t.Fatalf("PhaseIndex = %d, want 1", h.state.PhaseIndex)
	}

	keys.press(ebiten.KeyArrowLeft)
	input.Update()
	if h.state.PhaseIndex != 0 {
		t.Fatalf("PhaseIndex = %d, want 0", h.state.PhaseIndex)
	}

	input.SetEnabled(false)
	keys.press(ebiten.KeyArrowRight)
	input.Update()
	if h.state.PhaseIndex != 0 {
		t.Errorf("disabled manual controls should ignore arrows, PhaseIndex = %d", h.state.PhaseIndex)
	}
}

// TestInputSystem_SpeedPresets 数字键切换速度预设
func TestInputSystem_SpeedPresets(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want int
	}{
		{ebiten.KeyDigit1, 250},
		{ebiten.KeyDigit3, 1000},
		{ebiten.KeyDigit2, 500},
		{ebiten.KeyDigit9, 500}, // 没有第 9 个预设
	}

	h := newSequencerHarness(newTestGame(3, nil), 1)
	input, keys := newTestInput(h)
	for _, tt := range tests {
		keys.press(tt.key)
		input.Update()
		if got := h.seq.PlaybackSpeedMs(); got != tt.want {
			t.Errorf("after %v: speed = %d, want %d", tt.key, got, tt.want)
		}
	}
}

// TestInputSystem_CopySummary C 键复制阶段报告
func TestInputSystem_CopySummary(t *testing.T) {
	gd := newTestGame(3, nil)
	gd.Phases[0].Summary = "Quiet opening."
	gd.Phases[0].State.Centers = map[string][]string{"FRANCE": {"PAR", "BRE", "MAR"}}
	h := newSequencerHarness(gd, 1)
	input, keys := newTestInput(h)

	var copied string
	input.SetClipboardWriter(func(s string) error {
		copied = s
		return nil
	})

	keys.press(ebiten.KeyC)
	input.Update()

	for _, want := range []string{"Phase 1/3", "S1901M", "Quiet opening.", "FRANCE: 3 centers"} {
		if !strings.Contains(copied, want) {
			t.Errorf("copied text missing %q:\n%s", want, copied)
		}
	}

	// 剪贴板失败只记录日志
	input.SetClipboardWriter(func(string) error { return errors.New("no clipboard") })
	input.Update()
}

// TestInputSystem_ToggleNarration N 键开关旁白
func TestInputSystem_ToggleNarration(t *testing.T) {
	h := newSequencerHarness(newTestGame(3, nil), 1)
	input, keys := newTestInput(h)

	if h.narration.Enabled() {
		t.Fatal("narration should start disabled")
	}
	keys.press(ebiten.KeyN)
	input.Update()
	if !h.narration.Enabled() {
		t.Error("N should enable narration")
	}
	keys.press()
	input.Update()
	if !h.narration.Enabled() {
		t.Error("narration should stay enabled without a key press")
	}
	keys.press(ebiten.KeyN)
	input.Update()
	if h.narration.Enabled() {
		t.Error("N should disable narration")
	}
}

// TestInputSystem_NoGame 未加载对局时忽略所有按键
func TestInputSystem_NoGame(t *testing.T) {
	h := newSequencerHarness(nil, 1)
	input, keys := newTestInput(h)
	copied := false
	input.SetClipboardWriter(func(string) error {
		copied = true
		return nil
	})

	keys.press(ebiten.KeySpace, ebiten.KeyArrowRight, ebiten.KeyC, ebiten.KeyDigit1)
	input.Update()

	if h.state.IsPlaying || copied || h.seq.PlaybackSpeedMs() != 500 {
		t.Error("input should be ignored without a game")
	}
}
