package utils

import "math"

// Easing Functions (缓动函数)
//
// 单位移动、生成、解散动画都通过缓动函数控制进度曲线。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInOutCubic 三次方缓入缓出
// 特点：开始慢，中间快，结束慢（单位移动默认曲线）
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseByName 根据配置中的名称返回缓动函数，未知名称退化为线性
func EaseByName(name string) func(float64) float64 {
	switch name {
	case "easeInOutCubic":
		return EaseInOutCubic
	case "easeOutQuad":
		return EaseOutQuad
	default:
		return EaseLinear
	}
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Sign 返回 v 的符号：-1、0 或 1
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
