package systems

import (
	"testing"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
)

func newTestGate(cfg config.MessageConfig) (*MessagePlaybackGate, *fakeChat, *game.PlaybackState, *game.Scheduler) {
	state := game.NewPlaybackState()
	scheduler := game.NewScheduler()
	chat := &fakeChat{}
	return NewMessagePlaybackGate(state, scheduler, chat, cfg), chat, state, scheduler
}

func phaseWithMessages(texts ...string) *game.Phase {
	p := &game.Phase{Name: "S1901M"}
	for _, text := range texts {
		p.Messages = append(p.Messages, game.Message{Sender: "FRANCE", Recipient: "ITALY", Message: text, Phase: p.Name})
	}
	return p
}

// TestMessagePlaybackGate_BypassWithoutMessages 没有消息的阶段绕过闸门
func TestMessagePlaybackGate_BypassWithoutMessages(t *testing.T) {
	gate, chat, state, _ := newTestGate(config.MessageConfig{CharsPerTick: 2, HoldMs: 100})
	called := false

	if gate.Play(&game.Phase{Name: "F1901M"}, func() { called = true }) {
		t.Fatal("Play should return false for a phase without messages")
	}
	if state.MessagesPlaying || gate.IsActive() || called || chat.shows != 0 {
		t.Error("bypassed gate should not touch state, chat or the callback")
	}
}

// TestMessagePlaybackGate_Reveal 逐字显示、停留、依次播放，结束后调用一次回调
func TestMessagePlaybackGate_Reveal(t *testing.T) {
	gate, chat, state, scheduler := newTestGate(config.MessageConfig{CharsPerTick: 2, HoldMs: 100})
	completions := 0

	if !gate.Play(phaseWithMessages("hello", "ok"), func() { completions++ }) {
		t.Fatal("Play should return true")
	}
	if !state.MessagesPlaying {
		t.Fatal("MessagesPlaying should be set")
	}

	steps := []string{"he", "hell", "hello"}
	for i, want := range steps {
		gate.Update()
		last := chat.revealed[len(chat.revealed)-1]
		if last.Text != want {
			t.Errorf("step %d: text = %q, want %q", i, last.Text, want)
		}
		if last.Complete != (i == len(steps)-1) {
			t.Errorf("step %d: Complete = %v", i, last.Complete)
		}
	}

	// 停留期间不再推进
	gate.Update()
	if len(chat.revealed) != 1 || chat.revealed[0].Text != "hello" {
		t.Fatalf("hold should freeze the chat, got %+v", chat.revealed)
	}

	scheduler.Advance(100)
	gate.Update()
	if len(chat.revealed) != 2 || chat.revealed[1].Text != "ok" || !chat.revealed[1].Complete {
		t.Fatalf("second message not revealed: %+v", chat.revealed)
	}
	if !chat.revealed[0].Complete {
		t.Error("first message should stay complete in history")
	}
	if completions != 0 || !state.MessagesPlaying {
		t.Fatal("gate finished before the last hold elapsed")
	}

	scheduler.Advance(100)
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if state.MessagesPlaying || gate.IsActive() {
		t.Error("gate should be idle after the last message")
	}

	gate.Update()
	scheduler.Advance(1000)
	if completions != 1 {
		t.Errorf("completion callback fired again: %d", completions)
	}
}

// TestMessagePlaybackGate_Runes 按字符（rune）而不是字节显示
func TestMessagePlaybackGate_Runes(t *testing.T) {
	gate, chat, _, _ := newTestGate(config.MessageConfig{CharsPerTick: 1, HoldMs: 100})
	gate.Play(phaseWithMessages("和平"), nil)

	gate.Update()
	if got := chat.revealed[0].Text; got != "和" {
		t.Errorf("text = %q, want %q", got, "和")
	}
	gate.Update()
	if got := chat.revealed[0]; got.Text != "和平" || !got.Complete {
		t.Errorf("revealed = %+v", got)
	}
}

// TestMessagePlaybackGate_InstantReveal CharsPerTick 为 0 时整条消息一帧显示完
func TestMessagePlaybackGate_InstantReveal(t *testing.T) {
	gate, chat, _, _ := newTestGate(config.MessageConfig{CharsPerTick: 0, HoldMs: 100})
	gate.Play(phaseWithMessages("a long message"), nil)

	gate.Update()
	if got := chat.revealed[0]; !got.Complete || got.Text != "a long message" {
		t.Errorf("revealed = %+v", got)
	}
}

// TestMessagePlaybackGate_Cancel 取消后不调用回调
func TestMessagePlaybackGate_Cancel(t *testing.T) {
	gate, _, state, scheduler := newTestGate(config.MessageConfig{CharsPerTick: 10, HoldMs: 100})
	called := false
	gate.Play(phaseWithMessages("hi"), func() { called = true })
	gate.Update()

	gate.Cancel()
	state.MessagesPlaying = false
	scheduler.Advance(1000)
	gate.Update()

	if called {
		t.Error("completion callback should not fire after Cancel")
	}
	if gate.IsActive() || scheduler.Pending() != 0 {
		t.Error("cancel should stop the gate and its hold timer")
	}
}

// TestMessagePlaybackGate_ShowAll 立即显示全部消息
func TestMessagePlaybackGate_ShowAll(t *testing.T) {
	gate, chat, state, _ := newTestGate(config.MessageConfig{CharsPerTick: 1, HoldMs: 100})

	gate.ShowAll(phaseWithMessages("one", "two"))
	if len(chat.revealed) != 2 || !chat.revealed[1].Complete || chat.revealed[1].Text != "two" {
		t.Errorf("revealed = %+v", chat.revealed)
	}
	if state.MessagesPlaying {
		t.Error("ShowAll should not set MessagesPlaying")
	}

	gate.ShowAll(&game.Phase{Name: "F1901M"})
	if chat.revealed == nil || len(chat.revealed) != 0 {
		t.Errorf("phase without messages should show an empty list, got %+v", chat.revealed)
	}

	gate.ShowAll(nil)
	if chat.clears != 1 {
		t.Errorf("clears = %d, want 1", chat.clears)
	}
}
