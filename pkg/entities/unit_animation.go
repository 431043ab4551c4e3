package entities

import (
	"math"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/utils"
	"github.com/google/uuid"
)

// UnitAnimationKind 单位动画类型
type UnitAnimationKind string

const (
	UnitAnimMove    UnitAnimationKind = "move"
	UnitAnimBounce  UnitAnimationKind = "bounce"
	UnitAnimBuild   UnitAnimationKind = "build"
	UnitAnimDisband UnitAnimationKind = "disband"
)

const (
	// moveArcHeight 移动时抛物线最高点相对离地高度的增量
	moveArcHeight = 20.0

	// bounceReach 被弹回的移动最多走到目标的比例
	bounceReach = 0.4
)

// UnitAnimation 单个单位的有限时长动画
//
// 按每帧的 dtMs 推进；DelayMs 内保持初始状态。
// 结束后 IsPlaying 返回 false，由单位动画集合移除，不会复用。
type UnitAnimation struct {
	ID     uuid.UUID
	Kind   UnitAnimationKind
	Entity ecs.EntityID

	em     *ecs.EntityManager
	from   utils.Vec3
	to     utils.Vec3
	height float64
	dest   string // 移动终点省份

	durationMs float64
	elapsedMs  float64
	ease       func(float64) float64
	done       bool
}

func newUnitAnimation(em *ecs.EntityManager, kind UnitAnimationKind, entity ecs.EntityID, durationMs float64, cfg config.UnitConfig) *UnitAnimation {
	return &UnitAnimation{
		ID:         uuid.New(),
		Kind:       kind,
		Entity:     entity,
		em:         em,
		height:     cfg.Height,
		durationMs: durationMs,
		ease:       utils.EaseByName(cfg.Easing),
	}
}

// NewMoveAnimation 单位从当前位置移动到 to（省份 dest）
func NewMoveAnimation(em *ecs.EntityManager, entity ecs.EntityID, to utils.Vec3, dest string, cfg config.UnitConfig) *UnitAnimation {
	a := newUnitAnimation(em, UnitAnimMove, entity, cfg.MoveDurationMs, cfg)
	a.from = entityPosition(em, entity)
	a.to = to
	a.dest = dest
	return a
}

// NewBounceAnimation 移动被弹回：向目标走一段后返回原位
func NewBounceAnimation(em *ecs.EntityManager, entity ecs.EntityID, to utils.Vec3, cfg config.UnitConfig) *UnitAnimation {
	a := newUnitAnimation(em, UnitAnimBounce, entity, cfg.BounceDurationMs, cfg)
	a.from = entityPosition(em, entity)
	a.to = to
	return a
}

// NewBuildAnimation 新单位从 0 放大到正常大小
func NewBuildAnimation(em *ecs.EntityManager, entity ecs.EntityID, cfg config.UnitConfig) *UnitAnimation {
	a := newUnitAnimation(em, UnitAnimBuild, entity, cfg.BuildDurationMs, cfg)
	if unit, ok := ecs.GetComponent[*components.UnitComponent](em, entity); ok {
		unit.Scale = 0
	}
	return a
}

// NewDisbandAnimation 单位淡出缩小，结束时删除实体
func NewDisbandAnimation(em *ecs.EntityManager, entity ecs.EntityID, cfg config.UnitConfig) *UnitAnimation {
	return newUnitAnimation(em, UnitAnimDisband, entity, cfg.DisbandDurationMs, cfg)
}

// WithDelay 设置开始前的等待时间（毫秒）
func (a *UnitAnimation) WithDelay(delayMs float64) *UnitAnimation {
	a.elapsedMs = -delayMs
	return a
}

// IsPlaying 动画是否仍在播放
func (a *UnitAnimation) IsPlaying() bool {
	return !a.done
}

// Progress 当前进度 [0,1]
func (a *UnitAnimation) Progress() float64 {
	if a.durationMs <= 0 {
		if a.done {
			return 1
		}
		return 0
	}
	return utils.Clamp01(a.elapsedMs / a.durationMs)
}

// Update 推进 dtMs 毫秒
func (a *UnitAnimation) Update(dtMs float64) {
	if a.done {
		return
	}
	a.elapsedMs += dtMs
	if a.elapsedMs < 0 {
		return
	}

	t := 1.0
	if a.durationMs > 0 {
		t = utils.Clamp01(a.elapsedMs / a.durationMs)
	}
	a.apply(a.ease(t))
	if t >= 1 {
		a.finish()
	}
}

func (a *UnitAnimation) apply(e float64) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](a.em, a.Entity)
	if !ok {
		// 实体已被删除（例如手动跳转阶段），动画直接结束
		a.done = true
		return
	}
	unit, _ := ecs.GetComponent[*components.UnitComponent](a.em, a.Entity)

	switch a.Kind {
	case UnitAnimMove:
		p := a.from.Lerp(a.to, e)
		pos.X, pos.Z = p.X, p.Z
		pos.Y = a.height + math.Sin(math.Pi*e)*moveArcHeight
	case UnitAnimBounce:
		reach := bounceReach * (1 - math.Abs(2*e-1))
		p := a.from.Lerp(a.to, reach)
		pos.X, pos.Z = p.X, p.Z
	case UnitAnimBuild:
		if unit != nil {
			unit.Scale = e
		}
	case UnitAnimDisband:
		if unit != nil {
			unit.Alpha = 1 - e
			unit.Scale = 1 - 0.5*e
		}
	}
}

func (a *UnitAnimation) finish() {
	a.done = true
	switch a.Kind {
	case UnitAnimMove:
		if unit, ok := ecs.GetComponent[*components.UnitComponent](a.em, a.Entity); ok {
			unit.Province = a.dest
		}
		if pos, ok := ecs.GetComponent[*components.PositionComponent](a.em, a.Entity); ok {
			pos.X, pos.Y, pos.Z = a.to.X, a.height, a.to.Z
		}
	case UnitAnimBounce:
		if pos, ok := ecs.GetComponent[*components.PositionComponent](a.em, a.Entity); ok {
			pos.X, pos.Z = a.from.X, a.from.Z
		}
	case UnitAnimDisband:
		a.em.DestroyEntity(a.Entity)
	}
}

func entityPosition(em *ecs.EntityManager, id ecs.EntityID) utils.Vec3 {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, id); ok {
		return utils.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	}
	return utils.Vec3{}
}
