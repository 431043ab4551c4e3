package components

import "github.com/decker502/diplomacy-playback/pkg/utils"

// CameraComponent 镜头的位置与投影参数
// 手动轨道控制和自动运镜都只修改 Position，渲染系统据此做透视投影
type CameraComponent struct {
	// Position 镜头世界坐标
	Position utils.Vec3

	// PrevPosition 本帧开始时的位置快照（用于大幅跳变检测）
	PrevPosition utils.Vec3

	// LookAt 镜头注视点（棋盘中心）
	LookAt utils.Vec3

	// FOVDegrees 垂直视角（度）
	FOVDegrees float64
}

// PanSegment 自动运镜的分段
type PanSegment int

const (
	// PanSegmentSweep 从当前位置移动到扫视起点（一次性）
	PanSegmentSweep PanSegment = iota

	// PanSegmentOrbit 绕棋盘往返扫视（yoyo，无限循环）
	PanSegmentOrbit
)

// String 返回 PanSegment 的字符串表示
func (s PanSegment) String() string {
	switch s {
	case PanSegmentSweep:
		return "Sweep"
	case PanSegmentOrbit:
		return "Orbit"
	default:
		return "Unknown"
	}
}

// CameraPanComponent 自动运镜状态（纯数据）
//
// 状态机：Sweep --(到达时长)--> Orbit --(永不结束)
//   - Sweep 段：虚拟目标从 SweepFrom 线性插值到扫视起点
//   - Orbit 段：Theta 在 [0, π] 间往返，Forward 表示当前方向
//
// 暂停不会重置 Segment、Elapsed 和 Theta，恢复后从原处继续
type CameraPanComponent struct {
	Segment PanSegment

	// Running 运镜是否在推进（暂停时为 false）
	Running bool

	// Started 是否已经开始过（首次开始时记录 SweepFrom）
	Started bool

	// Elapsed 当前分段（Orbit 为当前这一程）已经过的时间（毫秒）
	Elapsed float64

	// SweepFrom Sweep 段的起点（开始运镜时的镜头位置）
	SweepFrom utils.Vec3

	// Target 当前虚拟目标位置
	Target utils.Vec3

	// Theta Orbit 段相位角 θ ∈ [0, π]
	Theta float64

	// Forward Orbit 段方向：true 表示 θ 递增
	Forward bool
}
