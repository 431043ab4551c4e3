package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a top-level screen of the viewer (the playback scene).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update advances the scene by one frame.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 回放场景实现此接口以在窗口关闭时持久化回放设置（推进速度等）
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	SaveOnExit() bool
}
