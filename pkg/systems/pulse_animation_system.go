package systems

import (
	"math"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
)

// 脉动效果常量
const (
	glowBaseOpacity  = 0.2
	glowOpacityRange = 0.3
	glowScaleRange   = 0.1
	bobBaseHeight    = 2.0
	bobAmplitude     = 0.5
)

// PulseAnimationSystem 补给中心的持续脉动/浮动效果
//
// 纯装饰效果，不影响回放状态；无论是否在播放，每帧都会运行。
type PulseAnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewPulseAnimationSystem 创建脉动效果系统
func NewPulseAnimationSystem(em *ecs.EntityManager) *PulseAnimationSystem {
	return &PulseAnimationSystem{entityManager: em}
}

// Update 推进所有带 PulseAnimationComponent 的实体
func (s *PulseAnimationSystem) Update() {
	for _, id := range ecs.GetEntitiesWith1[*components.PulseAnimationComponent](s.entityManager) {
		pulse, _ := ecs.GetComponent[*components.PulseAnimationComponent](s.entityManager, id)
		pulse.Time += pulse.Speed
		wave := math.Sin(pulse.Time)

		if glow, ok := ecs.GetComponent[*components.GlowComponent](s.entityManager, id); ok {
			pulseValue := wave*pulse.Intensity + 0.5
			glow.Opacity = glowBaseOpacity + pulseValue*glowOpacityRange
			glow.Scale = 1 + pulseValue*glowScaleRange
		}

		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			pos.Y = bobBaseHeight + wave*bobAmplitude
		}
	}
}
