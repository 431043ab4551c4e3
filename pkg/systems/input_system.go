package systems

import (
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyInput 键盘输入源（便于测试替换）
type KeyInput interface {
	IsKeyJustPressed(key ebiten.Key) bool
}

type ebitenKeyInput struct{}

func (ebitenKeyInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// speedPresetKeys 数字键 1~9 对应速度预设
var speedPresetKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// InputSystem 处理回放快捷键
//
//   - Space: 开始/暂停自动播放
//   - ←/→: 上一阶段/下一阶段（仅手动控制启用时）
//   - 1~N: 切换速度预设
//   - C: 复制当前阶段总结到剪贴板
//   - N: 开关阶段总结旁白
//
// 同时实现 ManualControls：自动播放期间禁用上一阶段/下一阶段。
type InputSystem struct {
	sequencer *PhaseSequencer
	narration *NarrationSystem
	settings  *game.SettingsManager
	presets   []int
	keys      KeyInput
	copyFn    func(string) error

	manualEnabled bool
}

// NewInputSystem 创建输入系统
// keys 为 nil 时使用 ebiten 键盘输入
func NewInputSystem(sequencer *PhaseSequencer, narration *NarrationSystem, settings *game.SettingsManager, presets []int, keys KeyInput) *InputSystem {
	if keys == nil {
		keys = ebitenKeyInput{}
	}
	return &InputSystem{
		sequencer:     sequencer,
		narration:     narration,
		settings:      settings,
		presets:       presets,
		keys:          keys,
		copyFn:        clipboard.WriteAll,
		manualEnabled: true,
	}
}

// SetClipboardWriter 替换剪贴板写入函数（测试或无剪贴板平台）
func (s *InputSystem) SetClipboardWriter(fn func(string) error) {
	s.copyFn = fn
}

// SetEnabled 启用/禁用手动上一阶段/下一阶段
func (s *InputSystem) SetEnabled(enabled bool) {
	s.manualEnabled = enabled
}

// ManualEnabled 手动控制是否启用
func (s *InputSystem) ManualEnabled() bool {
	return s.manualEnabled
}

// Update 处理本帧按键
func (s *InputSystem) Update() {
	if s.sequencer.GameData() == nil {
		return
	}

	if s.keys.IsKeyJustPressed(ebiten.KeySpace) {
		s.sequencer.TogglePlayback()
	}

	if s.manualEnabled {
		if s.keys.IsKeyJustPressed(ebiten.KeyArrowRight) {
			s.sequencer.AdvanceToNextPhase()
		} else if s.keys.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			s.sequencer.PreviousPhase()
		}
	}

	for i, key := range speedPresetKeys {
		if i >= len(s.presets) {
			break
		}
		if s.keys.IsKeyJustPressed(key) {
			s.sequencer.SetPlaybackSpeed(s.presets[i])
			s.saveSettings()
			break
		}
	}

	if s.keys.IsKeyJustPressed(ebiten.KeyC) {
		s.copySummary()
	}

	if s.narration != nil && s.keys.IsKeyJustPressed(ebiten.KeyN) {
		enabled := !s.narration.Enabled()
		s.narration.SetEnabled(enabled)
		if s.settings != nil {
			s.settings.SetNarrationEnabled(enabled)
			s.saveSettings()
		}
	}
}

// copySummary 复制当前阶段报告，失败只记录日志
func (s *InputSystem) copySummary() {
	phase := s.sequencer.CurrentPhase()
	if phase == nil || s.copyFn == nil {
		return
	}
	st := s.sequencer.Status()
	report := fmt.Sprintf("Phase %d/%d\n%s", st.PhaseIndex+1, st.PhaseCount, phase.Report())
	if err := s.copyFn(report); err != nil {
		log.Printf("[InputSystem] Failed to copy phase summary: %v", err)
		return
	}
	log.Printf("[InputSystem] Copied summary of phase %s to clipboard", phase.Name)
}

func (s *InputSystem) saveSettings() {
	if s.settings == nil {
		return
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[InputSystem] Warning: %v", err)
	}
}
