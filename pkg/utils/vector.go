package utils

import "math"

// Vec3 三维坐标（世界坐标系，Y 轴向上）
type Vec3 struct {
	X, Y, Z float64
}

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 向量数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Lerp 按因子 t 将 v 拉向 target，返回新位置
// 等价于 v + (target - v) * t，用于镜头的指数平滑
func (v Vec3) Lerp(target Vec3, t float64) Vec3 {
	return Vec3{
		X: Lerp(v.X, target.X, t),
		Y: Lerp(v.Y, target.Y, t),
		Z: Lerp(v.Z, target.Z, t),
	}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 单位化，零向量原样返回
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}
