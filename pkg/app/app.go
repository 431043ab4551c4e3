// Package app 提供回放应用的核心包装器
//
// 该包把启动逻辑（配置加载、设置持久化、场景创建）从 main 包中提取出来，
// main.go 只负责解析命令行参数和窗口设置。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/decker502/diplomacy-playback/pkg/scenes"
	"github.com/decker502/diplomacy-playback/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "diplomacy_playback"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// GameFile 启动时加载的对局文件，为空时不加载（Debug/Streaming 模式加载内置对局）
	GameFile string
	// ConfigPath 回放配置 YAML，为空时使用内置配置
	ConfigPath string
	// BoardPath 地图配置 YAML，为空时使用内置地图
	BoardPath string
	// SpeedMs 覆盖推进延迟（毫秒），0 表示使用设置/配置中的值
	SpeedMs int
	// Streaming 直播模式：加载对局后自动开始播放
	Streaming bool
	// Debug 调试模式：没有指定对局文件时加载内置默认对局
	Debug bool
}

// App 是回放应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化回放应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	playbackCfg, err := config.LoadPlaybackConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("回放配置加载失败: %w", err)
	}
	board, err := config.LoadBoardConfig(cfg.BoardPath)
	if err != nil {
		return nil, fmt.Errorf("地图配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载地图配置: %d 个省份, %d 个补给中心", len(board.Provinces), len(board.SupplyCenters))

	// gdata 不可用时进入降级模式（设置只保存在内存中）
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		gdataManager = nil
	}
	settings := game.NewSettingsManager(gdataManager, &game.PlaybackSettings{
		PlaybackSpeedMs:  playbackCfg.PlaybackSpeedMs,
		NarrationEnabled: playbackCfg.Narration.Enabled,
	})
	if cfg.SpeedMs > 0 {
		settings.SetPlaybackSpeed(cfg.SpeedMs)
	}

	face, err := systems.NewOverlayFace(config.OverlayFontSize)
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	scene, err := scenes.NewPlaybackScene(scenes.PlaybackSceneOptions{
		Playback:  playbackCfg,
		Board:     board,
		Settings:  settings,
		Streaming: cfg.Streaming,
		Face:      face,
	})
	if err != nil {
		return nil, fmt.Errorf("回放场景创建失败: %w", err)
	}

	// 加载失败不是致命错误：保持空棋盘，提示用户拖放文件
	switch {
	case cfg.GameFile != "":
		_ = scene.LoadGameFile(cfg.GameFile)
	case cfg.Debug || cfg.Streaming:
		_ = scene.LoadDefaultGame()
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新回放逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	// 每个 tick 的时长由 ebiten 的 TPS 决定，所有动画和定时器共用同一个 dt
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	deltaTime := 1.0 / float64(tps)
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制回放画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时 letterbox 区域填充黑色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
