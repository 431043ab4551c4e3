package scenes

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/entities"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/decker502/diplomacy-playback/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// dropHint 未加载对局或加载失败时的提示
const dropHint = "Drop a game JSON file onto the window to load it"

// PlaybackSceneOptions 回放场景的构建参数
type PlaybackSceneOptions struct {
	Playback *config.PlaybackConfig
	Board    *config.BoardConfig
	Settings *game.SettingsManager

	// Streaming 直播模式：加载对局后延迟自动开始播放
	Streaming bool

	// 以下字段可以为 nil（测试或无窗口环境）
	Face         *text.GoTextFace
	Keys         systems.KeyInput
	Pointer      systems.PointerInput
	DroppedFiles func() fs.FS
}

// PlaybackScene 对局回放场景
//
// 持有回放的全部状态（PlaybackState 不是全局单例），
// 每帧按固定顺序驱动各系统：
//
//	input → scheduler → messages → camera.snapshot → camera.pan → camera.damping
//	→ units → pulse → orbit → cleanup
type PlaybackScene struct {
	cfg      *config.PlaybackConfig
	board    *config.BoardConfig
	settings *game.SettingsManager

	entityManager *ecs.EntityManager
	state         *game.PlaybackState
	scheduler     *game.Scheduler
	clock         *systems.FrameClock

	camera     *systems.CameraSystem
	orbit      *systems.OrbitControls
	animations *systems.UnitAnimationSet
	pulse      *systems.PulseAnimationSystem
	gate       *systems.MessagePlaybackGate
	narration  *systems.NarrationSystem
	sequencer  *systems.PhaseSequencer
	input      *systems.InputSystem
	render     *systems.RenderSystem
	overlay    *systems.OverlayRenderSystem

	streaming    bool
	streamTimer  game.TimerID
	hint         string
	droppedFiles func() fs.FS
}

// NewPlaybackScene 创建回放场景
func NewPlaybackScene(opts PlaybackSceneOptions) (*PlaybackScene, error) {
	if opts.Playback == nil {
		opts.Playback = config.DefaultPlaybackConfig()
	}
	if opts.Board == nil {
		return nil, fmt.Errorf("board config is required")
	}
	if opts.Settings == nil {
		opts.Settings = game.NewSettingsManager(nil, &game.PlaybackSettings{
			PlaybackSpeedMs:  opts.Playback.PlaybackSpeedMs,
			NarrationEnabled: opts.Playback.Narration.Enabled,
		})
	}
	if opts.DroppedFiles == nil {
		opts.DroppedFiles = ebiten.DroppedFiles
	}

	s := &PlaybackScene{
		cfg:           opts.Playback,
		board:         opts.Board,
		settings:      opts.Settings,
		entityManager: ecs.NewEntityManager(),
		state:         game.NewPlaybackState(),
		scheduler:     game.NewScheduler(),
		clock:         systems.NewFrameClock(),
		streaming:     opts.Streaming,
		hint:          dropHint,
		droppedFiles:  opts.DroppedFiles,
	}

	if _, err := entities.BuildSupplyCenters(s.entityManager, s.board, s.cfg.Pulse); err != nil {
		return nil, fmt.Errorf("failed to build supply centers: %w", err)
	}

	s.camera = systems.NewCameraSystem(s.entityManager, s.cfg.Camera)
	s.orbit = systems.NewOrbitControls(s.camera, s.cfg.Camera, opts.Pointer)
	s.animations = systems.NewUnitAnimationSet(s.state)
	s.pulse = systems.NewPulseAnimationSystem(s.entityManager)
	s.overlay = systems.NewOverlayRenderSystem(opts.Face, s.board, s.cfg.Messages.MaxVisible)
	s.gate = systems.NewMessagePlaybackGate(s.state, s.scheduler, s.overlay, s.cfg.Messages)

	narrationCfg := s.cfg.Narration
	narrationCfg.Enabled = s.settings.GetSettings().NarrationEnabled
	s.narration = systems.NewNarrationSystem(s.state, s.scheduler, narrationCfg)

	factory := systems.NewBoardAnimationFactory(s.entityManager, s.board, s.cfg.Units)
	s.sequencer = systems.NewPhaseSequencer(systems.SequencerDeps{
		State:      s.state,
		Scheduler:  s.scheduler,
		Animations: s.animations,
		Factory:    factory,
		Gate:       s.gate,
		Camera:     s.camera,
		Standings:  s.overlay,
		Narration:  s.narration,
		Settings:   s.settings,
	}, s.cfg.PlaybackSpeedMs)

	s.input = systems.NewInputSystem(s.sequencer, s.narration, s.settings, s.cfg.SpeedPresetsMs, opts.Keys)
	s.sequencer.Controls = s.input
	s.render = systems.NewRenderSystem(s.entityManager, s.camera, s.board)

	// 未加载对局时显示空积分榜
	s.overlay.Show(nil)

	s.registerFrameHooks()
	log.Printf("[PlaybackScene] Scene created (streaming=%v, speed=%dms)", s.streaming, s.sequencer.PlaybackSpeedMs())
	return s, nil
}

// registerFrameHooks 注册每帧的更新顺序
// 指针输入每帧只在 input 阶段读取一次；手动模式下在 camera.pan 阶段应用，
// 自动播放时在 orbit 阶段应用
func (s *PlaybackScene) registerFrameHooks() {
	s.clock.Register("input", func(float64) {
		s.handleDroppedFiles()
		s.input.Update()
		s.orbit.Poll()
	})
	s.clock.Register("scheduler", s.scheduler.Advance)
	s.clock.Register("messages", func(float64) { s.gate.Update() })
	s.clock.Register("camera.snapshot", func(float64) { s.camera.SnapshotPrevious() })
	s.clock.Register("camera.pan", func(dtMs float64) {
		// 手动模式下轨道控制在阻尼检查之前移动镜头
		if s.state.IsPlaying {
			s.camera.UpdatePan(dtMs)
		} else {
			s.orbit.Apply()
		}
	})
	s.clock.Register("camera.damping", func(float64) { s.camera.DampJump() })
	s.clock.Register("units", func(dtMs float64) { s.animations.Update(dtMs) })
	s.clock.Register("pulse", func(float64) { s.pulse.Update() })
	s.clock.Register("orbit", func(float64) { s.orbit.Apply() })
	s.clock.Register("cleanup", func(float64) { s.entityManager.RemoveMarkedEntities() })
}

// Update 推进一帧，deltaTime 单位为秒
func (s *PlaybackScene) Update(deltaTime float64) {
	s.clock.Tick(deltaTime * 1000)
}

// Draw 绘制棋盘和叠加层
func (s *PlaybackScene) Draw(screen *ebiten.Image) {
	s.render.Draw(screen)
	hint := ""
	if s.sequencer.GameData() == nil {
		hint = s.hint
	}
	s.overlay.Draw(screen, s.sequencer.Status(), s.narration.Caption(), hint)
}

// SaveOnExit 退出时保存设置
func (s *PlaybackScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[PlaybackScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

// LoadGame 加载对局并显示第一个阶段
//
// 直播模式下会在 StreamingStartDelayMs 后自动开始播放（同时启动运镜）。
func (s *PlaybackScene) LoadGame(gd *game.GameData) {
	s.scheduler.Cancel(s.streamTimer)
	s.streamTimer = 0

	s.sequencer.LoadGame(gd)
	s.hint = ""

	if s.streaming {
		s.streamTimer = s.scheduler.AfterFunc(float64(s.cfg.StreamingStartDelayMs), func() {
			s.streamTimer = 0
			if !s.state.IsPlaying {
				log.Printf("[PlaybackScene] Streaming mode: starting playback")
				s.sequencer.TogglePlayback()
			}
		})
	}
}

// LoadGameBytes 解析并加载对局数据，失败时保持当前状态并提示手动加载
func (s *PlaybackScene) LoadGameBytes(name string, data []byte) error {
	gd, err := game.LoadGameData(data)
	if err != nil {
		log.Printf("[PlaybackScene] Error loading game %s: %v", name, err)
		s.hint = fmt.Sprintf("Failed to load %s. %s", name, dropHint)
		return fmt.Errorf("failed to load game %s: %w", name, err)
	}
	log.Printf("[PlaybackScene] Loaded game %s (%d phases)", name, gd.PhaseCount())
	s.LoadGame(gd)
	return nil
}

// LoadGameFile 从磁盘加载对局
func (s *PlaybackScene) LoadGameFile(path string) error {
	gd, err := game.LoadGameFile(path)
	if err != nil {
		log.Printf("[PlaybackScene] Error loading game file: %v", err)
		s.hint = fmt.Sprintf("Failed to load %s. %s", path, dropHint)
		return err
	}
	s.LoadGame(gd)
	return nil
}

// LoadDefaultGame 加载内置默认对局（调试/直播模式）
func (s *PlaybackScene) LoadDefaultGame() error {
	log.Printf("[PlaybackScene] Loading default game file for debug mode...")
	gd, err := game.LoadDefaultGame()
	if err != nil {
		log.Printf("[PlaybackScene] Error loading default game: %v", err)
		log.Printf("[PlaybackScene] Please load a game file by dropping it onto the window")
		return err
	}
	s.LoadGame(gd)
	return nil
}

// handleDroppedFiles 处理拖放到窗口的对局文件（只取第一个 .json）
func (s *PlaybackScene) handleDroppedFiles() {
	files := s.droppedFiles()
	if files == nil {
		return
	}
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		log.Printf("[PlaybackScene] Failed to read dropped files: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".json") {
			continue
		}
		data, err := fs.ReadFile(files, e.Name())
		if err != nil {
			log.Printf("[PlaybackScene] Failed to read dropped file %s: %v", e.Name(), err)
			return
		}
		_ = s.LoadGameBytes(e.Name(), data)
		return
	}
	log.Printf("[PlaybackScene] No JSON file among %d dropped files", len(entries))
}

// Sequencer 阶段序列器
func (s *PlaybackScene) Sequencer() *systems.PhaseSequencer { return s.sequencer }

// State 回放状态
func (s *PlaybackScene) State() *game.PlaybackState { return s.state }

// Camera 镜头系统
func (s *PlaybackScene) Camera() *systems.CameraSystem { return s.camera }

// Overlay 叠加层
func (s *PlaybackScene) Overlay() *systems.OverlayRenderSystem { return s.overlay }

// FrameHookNames 每帧更新顺序
func (s *PlaybackScene) FrameHookNames() []string { return s.clock.HookNames() }

// EntityManager 实体管理器
func (s *PlaybackScene) EntityManager() *ecs.EntityManager { return s.entityManager }
