package systems

import (
	"math"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// OrbitController 手动镜头控制器，Update 读取并应用一帧的输入
type OrbitController interface {
	Update()
}

var _ OrbitController = (*OrbitControls)(nil)

// PointerInput 鼠标输入源（便于测试替换）
type PointerInput interface {
	CursorPosition() (int, int)
	IsDragging() bool
	Wheel() (float64, float64)
}

// ebitenPointerInput 基于 ebiten 的鼠标/触摸输入
type ebitenPointerInput struct{}

func (ebitenPointerInput) CursorPosition() (int, int) { return utils.PointerPosition() }

func (ebitenPointerInput) IsDragging() bool { return utils.IsPointerPressed() }

func (ebitenPointerInput) Wheel() (float64, float64) { return ebiten.Wheel() }

// 俯仰角限制，避免翻转到棋盘下方或正上方
const (
	minPolarAngle = 0.1
	maxPolarAngle = math.Pi/2 - 0.05
)

// OrbitControls 围绕注视点的轨道控制
//
// 输入读取（Poll）和应用（Apply）分开：帧循环每个 tick 只 Poll 一次，
// Apply 会消耗掉待应用的增量，同一 tick 内多次 Apply 不会重复移动镜头。
// 应用时从镜头当前位置反推球坐标再叠加增量，只有存在增量时才写回镜头位置，
// 因此自动运镜期间没有输入时不会干扰运镜。
type OrbitControls struct {
	camera *CameraSystem
	input  PointerInput
	cfg    config.CameraConfig

	dragging   bool
	lastCursor [2]int

	// 已读取、尚未应用的增量
	pendingYaw   float64
	pendingPolar float64
	pendingDist  float64
}

// NewOrbitControls 创建轨道控制器，input 为 nil 时使用 ebiten 鼠标输入
func NewOrbitControls(camera *CameraSystem, cfg config.CameraConfig, input PointerInput) *OrbitControls {
	if input == nil {
		input = ebitenPointerInput{}
	}
	return &OrbitControls{camera: camera, input: input, cfg: cfg}
}

// Update 读取并应用本帧的拖拽和缩放
func (oc *OrbitControls) Update() {
	oc.Poll()
	oc.Apply()
}

// Poll 读取本帧的指针输入并累加到待应用的增量
func (oc *OrbitControls) Poll() {
	x, y := oc.input.CursorPosition()
	if oc.input.IsDragging() {
		if oc.dragging {
			oc.pendingYaw -= float64(x-oc.lastCursor[0]) * oc.cfg.DragSensitivity
			oc.pendingPolar -= float64(y-oc.lastCursor[1]) * oc.cfg.DragSensitivity
		}
		oc.dragging = true
	} else {
		oc.dragging = false
	}
	oc.lastCursor = [2]int{x, y}

	if _, wy := oc.input.Wheel(); wy != 0 {
		oc.pendingDist -= wy * oc.cfg.ZoomSensitivity
	}
}

// HasPending 是否有尚未应用的增量
func (oc *OrbitControls) HasPending() bool {
	return oc.pendingYaw != 0 || oc.pendingPolar != 0 || oc.pendingDist != 0
}

// Apply 把待应用的增量写到镜头上并清零
func (oc *OrbitControls) Apply() {
	if !oc.HasPending() {
		return
	}
	dYaw, dPolar, dDist := oc.pendingYaw, oc.pendingPolar, oc.pendingDist
	oc.pendingYaw, oc.pendingPolar, oc.pendingDist = 0, 0, 0

	cam := oc.camera.Camera()
	offset := cam.Position.Sub(cam.LookAt)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	yaw := math.Atan2(offset.X, offset.Z)
	polar := math.Acos(math.Max(-1, math.Min(1, offset.Y/radius)))

	yaw += dYaw
	polar = math.Max(minPolarAngle, math.Min(maxPolarAngle, polar+dPolar))
	radius = math.Max(oc.cfg.MinOrbitDistance, math.Min(oc.cfg.MaxOrbitDistance, radius+dDist))

	cam.Position = cam.LookAt.Add(utils.Vec3{
		X: radius * math.Sin(polar) * math.Sin(yaw),
		Y: radius * math.Cos(polar),
		Z: radius * math.Sin(polar) * math.Cos(yaw),
	})
}
