package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlaybackSettings 回放运行时设置
// 可在运行时修改（数字键切换速度），并通过 gdata 持久化
type PlaybackSettings struct {
	// PlaybackSpeedMs 动画结束到推进下一阶段的延迟（毫秒）
	PlaybackSpeedMs int `yaml:"playbackSpeedMs"`

	// NarrationEnabled 是否在阶段结束时显示阶段总结旁白
	NarrationEnabled bool `yaml:"narrationEnabled"`

	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PlaybackSettings {
	return &PlaybackSettings{
		PlaybackSpeedMs:  500,
		NarrationEnabled: false,
		Fullscreen:       false,
	}
}

// SettingsManager 设置管理器
// 负责回放设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager   // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PlaybackSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "playback"

	// MaxPlaybackSpeedMs 推进延迟上限（毫秒）
	MaxPlaybackSpeedMs = 60000
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 默认设置（通常来自 playback.yaml），为 nil 时使用 DefaultSettings()
//
// 加载失败不是致命错误，记录日志后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager, defaults *PlaybackSettings) *SettingsManager {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     cloneSettings(defaults),
	}

	if err := sm.Load(defaults); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或没有已保存的设置，保留 defaults
func (sm *SettingsManager) Load(defaults *PlaybackSettings) error {
	if sm.gdataManager == nil {
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = cloneSettings(defaults)
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := cloneSettings(defaults)
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = cloneSettings(defaults)
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.PlaybackSpeedMs = clampSpeed(loaded.PlaybackSpeedMs)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully (playbackSpeed=%dms)", loaded.PlaybackSpeedMs)
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *PlaybackSettings {
	return sm.settings
}

// PlaybackSpeedMs 当前推进延迟（毫秒）
func (sm *SettingsManager) PlaybackSpeedMs() int {
	return sm.settings.PlaybackSpeedMs
}

// SetPlaybackSpeed 设置推进延迟
//
// 值会被限制在 [0, MaxPlaybackSpeedMs]
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetPlaybackSpeed(ms int) {
	sm.settings.PlaybackSpeedMs = clampSpeed(ms)
}

// SetNarrationEnabled 设置阶段总结旁白开关
func (sm *SettingsManager) SetNarrationEnabled(enabled bool) {
	sm.settings.NarrationEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampSpeed 将推进延迟限制在合法范围内
func clampSpeed(ms int) int {
	if ms < 0 {
		return 0
	}
	if ms > MaxPlaybackSpeedMs {
		return MaxPlaybackSpeedMs
	}
	return ms
}

func cloneSettings(s *PlaybackSettings) *PlaybackSettings {
	c := *s
	return &c
}
