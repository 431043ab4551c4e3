package components

// PulseAnimationComponent 补给中心标记的持续脉动/浮动效果（纯数据）
//
// 工作原理：
//   - 场景构建时添加，生命周期与标记实体相同
//   - PulseAnimationSystem 每帧 Time += Speed
//   - 脉动值 = sin(Time)·Intensity + 0.5，驱动 GlowComponent
//   - 同时 PositionComponent.Y = 2 + sin(Time)·0.5（上下浮动）
type PulseAnimationComponent struct {
	// Time 当前相位
	Time float64

	// Speed 每帧相位增量
	Speed float64

	// Intensity 脉动幅度
	Intensity float64
}

// GlowComponent 补给中心的光晕子网格
// 由 PulseAnimationSystem 写入，RenderSystem 读取
type GlowComponent struct {
	// Opacity 光晕不透明度
	Opacity float64

	// Scale 光晕整体缩放（三轴一致）
	Scale float64
}
