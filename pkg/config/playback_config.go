package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/decker502/diplomacy-playback/pkg/embedded"
	"github.com/decker502/diplomacy-playback/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultPlaybackConfigPath 内置默认回放配置（embed）
const DefaultPlaybackConfigPath = "data/config/playback.yaml"

// PlaybackConfig 回放引擎配置
// 定义阶段推进延迟、镜头运镜参数、补给中心脉动、消息逐字显示等可调参数
type PlaybackConfig struct {
	// PlaybackSpeedMs 动画结束后到推进下一阶段的延迟（毫秒）
	PlaybackSpeedMs int `yaml:"playbackSpeedMs"`

	// SpeedPresetsMs 数字键 1~N 对应的速度预设（毫秒）
	SpeedPresetsMs []int `yaml:"speedPresetsMs"`

	// StreamingStartDelayMs 直播模式下加载对局后自动开始播放的延迟（毫秒）
	StreamingStartDelayMs int `yaml:"streamingStartDelayMs"`

	Camera    CameraConfig    `yaml:"camera"`
	Pulse     PulseConfig     `yaml:"pulse"`
	Messages  MessageConfig   `yaml:"messages"`
	Units     UnitConfig      `yaml:"units"`
	Narration NarrationConfig `yaml:"narration"`
}

// CameraConfig 镜头配置
//
// 自动运镜分两段：
//   - Sweep：从当前位置线性移动到 SweepTarget（一次性）
//   - Orbit：θ ∈ [0, π] 往返（yoyo）无限循环
//     x = OrbitRadius·sin(θ/2) + OrbitOffsetX
//     y = OrbitBaseY + OrbitLiftY·sin(θ)
//     z = OrbitBaseZ + OrbitPushZ·sin(θ)
type CameraConfig struct {
	InitialPosition utils.Vec3 `yaml:"initialPosition"`
	LookAt          utils.Vec3 `yaml:"lookAt"`
	FOVDegrees      float64    `yaml:"fovDegrees"`

	SweepDurationMs float64    `yaml:"sweepDurationMs"`
	SweepTarget     utils.Vec3 `yaml:"sweepTarget"`
	SweepSmoothing  float64    `yaml:"sweepSmoothing"`

	OrbitDurationMs float64 `yaml:"orbitDurationMs"`
	OrbitRadius     float64 `yaml:"orbitRadius"`
	OrbitOffsetX    float64 `yaml:"orbitOffsetX"`
	OrbitBaseY      float64 `yaml:"orbitBaseY"`
	OrbitLiftY      float64 `yaml:"orbitLiftY"`
	OrbitBaseZ      float64 `yaml:"orbitBaseZ"`
	OrbitPushZ      float64 `yaml:"orbitPushZ"`
	OrbitSmoothing  float64 `yaml:"orbitSmoothing"`

	// JumpThreshold 单帧单轴最大位移，超出时平滑拉回
	JumpThreshold float64 `yaml:"jumpThreshold"`
	JumpSmoothing float64 `yaml:"jumpSmoothing"`

	// 手动轨道控制
	DragSensitivity  float64 `yaml:"dragSensitivity"`
	ZoomSensitivity  float64 `yaml:"zoomSensitivity"`
	MinOrbitDistance float64 `yaml:"minOrbitDistance"`
	MaxOrbitDistance float64 `yaml:"maxOrbitDistance"`
}

// PulseConfig 补给中心脉动效果配置
type PulseConfig struct {
	Speed     float64 `yaml:"speed"`     // 每帧 time 增量
	Intensity float64 `yaml:"intensity"` // 脉动幅度
}

// MessageConfig 外交消息逐字显示配置
type MessageConfig struct {
	CharsPerTick int     `yaml:"charsPerTick"` // 每帧显示的字符数
	HoldMs       float64 `yaml:"holdMs"`       // 一条消息显示完后停留时间（毫秒）
	MaxVisible   int     `yaml:"maxVisible"`   // 聊天窗口最多显示的消息条数
}

// UnitConfig 单位动画配置
type UnitConfig struct {
	MoveDurationMs    float64 `yaml:"moveDurationMs"`
	BuildDurationMs   float64 `yaml:"buildDurationMs"`
	DisbandDurationMs float64 `yaml:"disbandDurationMs"`
	BounceDurationMs  float64 `yaml:"bounceDurationMs"`
	Easing            string  `yaml:"easing"`
	Height            float64 `yaml:"height"` // 单位离地高度
}

// NarrationConfig 阶段总结旁白配置
type NarrationConfig struct {
	Enabled    bool    `yaml:"enabled"`
	DurationMs float64 `yaml:"durationMs"`
}

// DefaultPlaybackConfig 返回默认回放配置
func DefaultPlaybackConfig() *PlaybackConfig {
	cfg := &PlaybackConfig{}
	applyPlaybackDefaults(cfg)
	return cfg
}

// LoadPlaybackConfig 加载回放配置
//
// 参数：
//   - path: YAML 文件路径；为空时读取内置默认配置，内置配置也不可用时返回默认值
//
// 返回：
//   - *PlaybackConfig: 已填充默认值的配置
//   - error: 文件读取或解析失败
func LoadPlaybackConfig(path string) (*PlaybackConfig, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(DefaultPlaybackConfigPath)
		if errors.Is(err, embedded.ErrNotInitialized) {
			return DefaultPlaybackConfig(), nil
		}
		path = DefaultPlaybackConfigPath
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read playback config file %s: %w", path, err)
	}

	cfg, err := ParsePlaybackConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid playback config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePlaybackConfig 解析 YAML 数据，应用默认值并校验
func ParsePlaybackConfig(data []byte) (*PlaybackConfig, error) {
	var cfg PlaybackConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse playback config YAML: %w", err)
	}
	applyPlaybackDefaults(&cfg)
	if err := validatePlaybackConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlaybackDefaults 为缺失字段设置默认值
func applyPlaybackDefaults(cfg *PlaybackConfig) {
	if cfg.PlaybackSpeedMs == 0 {
		cfg.PlaybackSpeedMs = 500
	}
	if len(cfg.SpeedPresetsMs) == 0 {
		cfg.SpeedPresetsMs = []int{250, 500, 1000, 2000}
	}
	if cfg.StreamingStartDelayMs == 0 {
		cfg.StreamingStartDelayMs = 2000
	}

	c := &cfg.Camera
	if c.InitialPosition == (utils.Vec3{}) {
		c.InitialPosition = utils.Vec3{X: 0, Y: 800, Z: 900}
	}
	if c.FOVDegrees == 0 {
		c.FOVDegrees = 60
	}
	if c.SweepDurationMs == 0 {
		c.SweepDurationMs = 8000
	}
	if c.SweepTarget == (utils.Vec3{}) {
		c.SweepTarget = utils.Vec3{X: -400, Y: 500, Z: 1000}
	}
	if c.SweepSmoothing == 0 {
		c.SweepSmoothing = 0.1
	}
	if c.OrbitDurationMs == 0 {
		c.OrbitDurationMs = 20000
	}
	if c.OrbitRadius == 0 {
		c.OrbitRadius = 2200
	}
	if c.OrbitOffsetX == 0 {
		c.OrbitOffsetX = -400
	}
	if c.OrbitBaseY == 0 {
		c.OrbitBaseY = 500
	}
	if c.OrbitLiftY == 0 {
		c.OrbitLiftY = 200
	}
	if c.OrbitBaseZ == 0 {
		c.OrbitBaseZ = 1000
	}
	if c.OrbitPushZ == 0 {
		c.OrbitPushZ = 900
	}
	if c.OrbitSmoothing == 0 {
		c.OrbitSmoothing = 0.05
	}
	if c.JumpThreshold == 0 {
		c.JumpThreshold = 20
	}
	if c.JumpSmoothing == 0 {
		c.JumpSmoothing = 0.5
	}
	if c.DragSensitivity == 0 {
		c.DragSensitivity = 0.005
	}
	if c.ZoomSensitivity == 0 {
		c.ZoomSensitivity = 60
	}
	if c.MinOrbitDistance == 0 {
		c.MinOrbitDistance = 300
	}
	if c.MaxOrbitDistance == 0 {
		c.MaxOrbitDistance = 3000
	}

	if cfg.Pulse.Speed == 0 {
		cfg.Pulse.Speed = 0.05
	}
	if cfg.Pulse.Intensity == 0 {
		cfg.Pulse.Intensity = 0.5
	}

	if cfg.Messages.CharsPerTick == 0 {
		cfg.Messages.CharsPerTick = 2
	}
	if cfg.Messages.HoldMs == 0 {
		cfg.Messages.HoldMs = 600
	}
	if cfg.Messages.MaxVisible == 0 {
		cfg.Messages.MaxVisible = 8
	}

	u := &cfg.Units
	if u.MoveDurationMs == 0 {
		u.MoveDurationMs = 1500
	}
	if u.BuildDurationMs == 0 {
		u.BuildDurationMs = 800
	}
	if u.DisbandDurationMs == 0 {
		u.DisbandDurationMs = 800
	}
	if u.BounceDurationMs == 0 {
		u.BounceDurationMs = 1000
	}
	if u.Easing == "" {
		u.Easing = "easeInOutCubic"
	}
	if u.Height == 0 {
		u.Height = 10
	}

	if cfg.Narration.DurationMs == 0 {
		cfg.Narration.DurationMs = 4000
	}
}

// validatePlaybackConfig 校验配置合法性
func validatePlaybackConfig(cfg *PlaybackConfig) error {
	if cfg.PlaybackSpeedMs < 0 {
		return fmt.Errorf("playbackSpeedMs cannot be negative, got %d", cfg.PlaybackSpeedMs)
	}
	for i, ms := range cfg.SpeedPresetsMs {
		if ms < 0 {
			return fmt.Errorf("speedPresetsMs[%d] cannot be negative, got %d", i, ms)
		}
	}
	c := cfg.Camera
	if c.JumpThreshold < 0 {
		return fmt.Errorf("camera.jumpThreshold cannot be negative, got %v", c.JumpThreshold)
	}
	for name, f := range map[string]float64{
		"camera.sweepSmoothing": c.SweepSmoothing,
		"camera.orbitSmoothing": c.OrbitSmoothing,
		"camera.jumpSmoothing":  c.JumpSmoothing,
	} {
		if f < 0 || f > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, f)
		}
	}
	if c.MinOrbitDistance > c.MaxOrbitDistance {
		return fmt.Errorf("camera.minOrbitDistance (%v) exceeds maxOrbitDistance (%v)", c.MinOrbitDistance, c.MaxOrbitDistance)
	}
	if cfg.Messages.CharsPerTick < 0 {
		return fmt.Errorf("messages.charsPerTick cannot be negative, got %d", cfg.Messages.CharsPerTick)
	}
	return nil
}
