package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/diplomacy-playback/pkg/utils"
)

// TestLoadPlaybackConfig_File 加载仓库内置的默认配置文件
func TestLoadPlaybackConfig_File(t *testing.T) {
	cfg, err := LoadPlaybackConfig(filepath.Join("..", "..", DefaultPlaybackConfigPath))
	if err != nil {
		t.Fatalf("LoadPlaybackConfig failed: %v", err)
	}

	if cfg.PlaybackSpeedMs != 500 {
		t.Errorf("PlaybackSpeedMs = %d, want 500", cfg.PlaybackSpeedMs)
	}
	if cfg.Camera.SweepTarget != (utils.Vec3{X: -400, Y: 500, Z: 1000}) {
		t.Errorf("SweepTarget = %+v", cfg.Camera.SweepTarget)
	}
	if cfg.Camera.JumpThreshold != 20 || cfg.Camera.JumpSmoothing != 0.5 {
		t.Errorf("jump damping = %v/%v, want 20/0.5", cfg.Camera.JumpThreshold, cfg.Camera.JumpSmoothing)
	}
	if cfg.Units.Easing != "easeInOutCubic" {
		t.Errorf("Units.Easing = %q", cfg.Units.Easing)
	}
	if len(cfg.SpeedPresetsMs) != 4 {
		t.Errorf("SpeedPresetsMs = %v", cfg.SpeedPresetsMs)
	}
}

// TestLoadPlaybackConfig_Embedded 未初始化内置资源时返回默认值
func TestLoadPlaybackConfig_Embedded(t *testing.T) {
	cfg, err := LoadPlaybackConfig("")
	if err != nil {
		t.Fatalf("LoadPlaybackConfig(\"\") failed: %v", err)
	}
	if cfg.PlaybackSpeedMs != 500 || cfg.Camera.OrbitRadius != 2200 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

// TestLoadPlaybackConfig_MissingFile 文件不存在时返回错误
func TestLoadPlaybackConfig_MissingFile(t *testing.T) {
	_, err := LoadPlaybackConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "failed to read playback config file") {
		t.Errorf("error = %v", err)
	}
}

// TestParsePlaybackConfig_Defaults 缺失字段使用默认值，已有字段保留
func TestParsePlaybackConfig_Defaults(t *testing.T) {
	cfg, err := ParsePlaybackConfig([]byte("playbackSpeedMs: 1200\ncamera:\n  orbitRadius: 1000\n"))
	if err != nil {
		t.Fatalf("ParsePlaybackConfig failed: %v", err)
	}
	if cfg.PlaybackSpeedMs != 1200 {
		t.Errorf("PlaybackSpeedMs = %d, want 1200", cfg.PlaybackSpeedMs)
	}
	if cfg.Camera.OrbitRadius != 1000 {
		t.Errorf("OrbitRadius = %v, want 1000", cfg.Camera.OrbitRadius)
	}
	if cfg.Camera.OrbitDurationMs != 20000 || cfg.Messages.CharsPerTick != 2 || cfg.Narration.DurationMs != 4000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

// TestParsePlaybackConfig_Invalid 非法配置返回错误
func TestParsePlaybackConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "playbackSpeedMs: [", "failed to parse"},
		{"negative speed", "playbackSpeedMs: -1", "playbackSpeedMs"},
		{"negative preset", "speedPresetsMs: [250, -5]", "speedPresetsMs[1]"},
		{"smoothing out of range", "camera:\n  sweepSmoothing: 1.5", "camera.sweepSmoothing"},
		{"negative threshold", "camera:\n  jumpThreshold: -3", "jumpThreshold"},
		{"orbit distance", "camera:\n  minOrbitDistance: 5000", "minOrbitDistance"},
		{"negative chars", "messages:\n  charsPerTick: -2", "charsPerTick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlaybackConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
