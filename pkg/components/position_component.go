package components

// PositionComponent 场景对象的世界坐标（Y 轴向上，地面 Y=0）
type PositionComponent struct {
	X float64
	Y float64
	Z float64
}
