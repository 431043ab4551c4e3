package systems

import (
	"testing"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
)

func newTestNarration() (*NarrationSystem, *game.PlaybackState, *game.Scheduler) {
	state := game.NewPlaybackState()
	scheduler := game.NewScheduler()
	n := NewNarrationSystem(state, scheduler, config.NarrationConfig{Enabled: true, DurationMs: 1000})
	return n, state, scheduler
}

// TestNarrationSystem_Speak 字幕显示期间 IsSpeaking，结束后回调一次
func TestNarrationSystem_Speak(t *testing.T) {
	n, state, scheduler := newTestNarration()
	done := 0

	n.Speak("Germany takes Holland.", func() { done++ })

	if !state.IsSpeaking || n.Caption() != "Germany takes Holland." {
		t.Fatalf("IsSpeaking=%v caption=%q", state.IsSpeaking, n.Caption())
	}

	scheduler.Advance(999)
	if done != 0 || !state.IsSpeaking {
		t.Fatal("narration finished early")
	}

	scheduler.Advance(1)
	if done != 1 {
		t.Errorf("done = %d, want 1", done)
	}
	if state.IsSpeaking || n.Caption() != "" {
		t.Error("narration state should be cleared after finishing")
	}
}

// TestNarrationSystem_EmptyText 空文本直接回调
func TestNarrationSystem_EmptyText(t *testing.T) {
	n, state, scheduler := newTestNarration()
	done := 0

	n.Speak("", func() { done++ })

	if done != 1 || state.IsSpeaking || scheduler.Pending() != 0 {
		t.Errorf("done=%d IsSpeaking=%v pending=%d", done, state.IsSpeaking, scheduler.Pending())
	}
}

// TestNarrationSystem_Stop 中止不调用回调
func TestNarrationSystem_Stop(t *testing.T) {
	n, state, scheduler := newTestNarration()
	done := 0
	n.Speak("summary", func() { done++ })

	n.Stop()
	scheduler.Advance(5000)

	if done != 0 {
		t.Errorf("done = %d, want 0", done)
	}
	if state.IsSpeaking || scheduler.Pending() != 0 {
		t.Error("stop should clear IsSpeaking and the timer")
	}
}

// TestNarrationSystem_DisableFinishesEarly 关闭旁白时提前结束并回调一次
func TestNarrationSystem_DisableFinishesEarly(t *testing.T) {
	n, state, scheduler := newTestNarration()
	done := 0
	n.Speak("summary", func() { done++ })

	n.SetEnabled(false)
	if done != 1 {
		t.Errorf("done = %d after disabling, want 1", done)
	}
	if state.IsSpeaking || n.Caption() != "" || scheduler.Pending() != 0 {
		t.Error("disabling should clear the caption, IsSpeaking and the timer")
	}

	scheduler.Advance(5000)
	if done != 1 {
		t.Errorf("done = %d, want exactly 1", done)
	}

	// 没有旁白时关闭不回调
	n.SetEnabled(false)
	if done != 1 {
		t.Errorf("done = %d, disabling twice should not call back", done)
	}
}
