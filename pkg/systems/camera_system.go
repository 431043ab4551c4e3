package systems

import (
	"log"
	"math"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/utils"
)

// CameraSystem 管理镜头位置、自动运镜（camera pan）和大幅跳变抑制。
//
// 两种互斥模式由 PlaybackState.IsPlaying 选择：
//   - 手动模式：由 OrbitControls 拖拽/缩放，这里不做计算
//   - 自动模式：UpdatePan 推进两段式运镜（Sweep → Orbit）
//
// 镜头不会被直接设置到目标位置，而是按平滑因子逐帧拉近，避免画面跳动。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.CameraConfig

	cameraEntity ecs.EntityID // 镜头实体ID
	panEntity    ecs.EntityID // 自动运镜状态实体ID
}

// NewCameraSystem 创建镜头控制系统，并创建镜头实体和运镜状态实体。
func NewCameraSystem(em *ecs.EntityManager, cfg config.CameraConfig) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		cfg:           cfg,
	}

	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		Position:     cfg.InitialPosition,
		PrevPosition: cfg.InitialPosition,
		LookAt:       cfg.LookAt,
		FOVDegrees:   cfg.FOVDegrees,
	})

	cs.panEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.panEntity, &components.CameraPanComponent{
		Segment: components.PanSegmentSweep,
		Forward: true,
	})

	return cs
}

// Camera 返回镜头组件
func (cs *CameraSystem) Camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cam
}

// Pan 返回自动运镜状态组件
func (cs *CameraSystem) Pan() *components.CameraPanComponent {
	pan, _ := ecs.GetComponent[*components.CameraPanComponent](cs.entityManager, cs.panEntity)
	return pan
}

// Position 返回镜头当前位置
func (cs *CameraSystem) Position() utils.Vec3 {
	return cs.Camera().Position
}

// SetPosition 直接设置镜头位置（手动轨道控制使用）
func (cs *CameraSystem) SetPosition(p utils.Vec3) {
	cs.Camera().Position = p
}

// SnapshotPrevious 记录本帧开始时的镜头位置，供跳变检测使用。
func (cs *CameraSystem) SnapshotPrevious() {
	cam := cs.Camera()
	cam.PrevPosition = cam.Position
}

// StartPan 开始或恢复自动运镜。
// 首次开始时从当前镜头位置进入 Sweep 段；之后从暂停处继续（已进入 Orbit 的保持在 Orbit）。
func (cs *CameraSystem) StartPan() {
	pan := cs.Pan()
	if !pan.Started {
		pos := cs.Position()
		pan.Started = true
		pan.Segment = components.PanSegmentSweep
		pan.Elapsed = 0
		pan.SweepFrom = pos
		pan.Target = pos
		pan.Theta = 0
		pan.Forward = true
	}
	pan.Running = true
	log.Printf("[CameraSystem] Pan started (segment=%s, theta=%.3f)", pan.Segment, pan.Theta)
}

// PausePan 暂停当前运镜分段，不重置相位角。
func (cs *CameraSystem) PausePan() {
	pan := cs.Pan()
	pan.Running = false
	log.Printf("[CameraSystem] Pan paused (segment=%s, theta=%.3f)", pan.Segment, pan.Theta)
}

// IsPanning 运镜是否正在推进
func (cs *CameraSystem) IsPanning() bool {
	return cs.Pan().Running
}

// UpdatePan 推进自动运镜。
// 参数 dtMs: 本帧经过的时间（毫秒）
func (cs *CameraSystem) UpdatePan(dtMs float64) {
	pan := cs.Pan()
	if !pan.Running {
		return
	}
	cam := cs.Camera()

	switch pan.Segment {
	case components.PanSegmentSweep:
		pan.Elapsed += dtMs
		t := 1.0
		if cs.cfg.SweepDurationMs > 0 {
			t = utils.Clamp01(pan.Elapsed / cs.cfg.SweepDurationMs)
		}
		pan.Target = pan.SweepFrom.Lerp(cs.cfg.SweepTarget, t)
		cam.Position = cam.Position.Lerp(pan.Target, cs.cfg.SweepSmoothing)

		if t >= 1 {
			// Sweep 完成后自动衔接 Orbit，从 θ=0 开始
			pan.Segment = components.PanSegmentOrbit
			pan.Elapsed = 0
			pan.Theta = 0
			pan.Forward = true
			log.Printf("[CameraSystem] Sweep finished, chaining into orbit")
		}

	case components.PanSegmentOrbit:
		cs.advanceOrbit(pan, dtMs)
		pan.Target = PanOrbitTarget(cs.cfg, pan.Theta)
		cam.Position = cam.Position.Lerp(pan.Target, cs.cfg.OrbitSmoothing)
	}
}

// advanceOrbit 推进 Orbit 段的 yoyo 状态机：每走完一程翻转方向
func (cs *CameraSystem) advanceOrbit(pan *components.CameraPanComponent, dtMs float64) {
	duration := cs.cfg.OrbitDurationMs
	if duration <= 0 {
		return
	}
	pan.Elapsed += dtMs
	for pan.Elapsed >= duration {
		pan.Elapsed -= duration
		pan.Forward = !pan.Forward
	}

	progress := pan.Elapsed / duration
	if pan.Forward {
		pan.Theta = math.Pi * progress
	} else {
		pan.Theta = math.Pi * (1 - progress)
	}
}

// PanOrbitTarget 计算 Orbit 段在相位角 theta 下的目标位置。
//
//	x = radius·sin(θ/2) + offsetX
//	y = baseY + liftY·sin(θ)
//	z = baseZ + pushZ·sin(θ)
func PanOrbitTarget(cfg config.CameraConfig, theta float64) utils.Vec3 {
	return utils.Vec3{
		X: cfg.OrbitRadius*math.Sin(theta/2) + cfg.OrbitOffsetX,
		Y: cfg.OrbitBaseY + cfg.OrbitLiftY*math.Sin(theta),
		Z: cfg.OrbitBaseZ + cfg.OrbitPushZ*math.Sin(theta),
	}
}

// DampJump 检测并抑制单帧大幅跳变。
//
// 任一轴相对上一帧的位移超过阈值时，不视为错误：该轴向
// "上一帧位置 + 阈值步长" 平滑拉回，并保证修正后单轴位移不超过阈值。
// 返回是否发生了修正。
func (cs *CameraSystem) DampJump() bool {
	cam := cs.Camera()
	prev := cam.PrevPosition
	cur := cam.Position
	threshold := cs.cfg.JumpThreshold

	dx := cur.X - prev.X
	dy := cur.Y - prev.Y
	dz := cur.Z - prev.Z
	if math.Abs(dx) <= threshold && math.Abs(dy) <= threshold && math.Abs(dz) <= threshold {
		return false
	}

	log.Printf("[CameraSystem] Warning: Large camera position jump detected (%.1f, %.1f, %.1f), smoothing transition", dx, dy, dz)

	target := cur
	if math.Abs(dx) > threshold {
		target.X = prev.X + utils.Sign(dx)*threshold
	}
	if math.Abs(dy) > threshold {
		target.Y = prev.Y + utils.Sign(dy)*threshold
	}
	if math.Abs(dz) > threshold {
		target.Z = prev.Z + utils.Sign(dz)*threshold
	}

	next := cur.Lerp(target, cs.cfg.JumpSmoothing)
	next.X = clampAround(next.X, prev.X, threshold)
	next.Y = clampAround(next.Y, prev.Y, threshold)
	next.Z = clampAround(next.Z, prev.Z, threshold)
	cam.Position = next
	return true
}

// clampAround 将 v 限制在 [center-r, center+r]
func clampAround(v, center, r float64) float64 {
	return math.Max(center-r, math.Min(center+r, v))
}
