package systems

import (
	"image/color"
	"math"
	"sort"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// nearPlane 近裁剪面距离
const nearPlane = 1.0

// ScreenPoint 投影后的屏幕坐标
type ScreenPoint struct {
	X, Y float64
	// Scale 透视缩放系数（距离越远越小）
	Scale float64
	// Depth 沿视线方向的距离
	Depth float64
}

// Project 把世界坐标透视投影到 width×height 的屏幕上
// 点在镜头背后（或近裁剪面之内）时 ok 为 false
func Project(cam *components.CameraComponent, p utils.Vec3, width, height float64) (ScreenPoint, bool) {
	forward := cam.LookAt.Sub(cam.Position).Normalize()
	right := forward.Cross(utils.Vec3{Y: 1}).Normalize()
	if right.Length() == 0 {
		// 正上方俯视时 up 与视线平行，改用 -Z 作为参考方向
		right = forward.Cross(utils.Vec3{Z: -1}).Normalize()
	}
	up := right.Cross(forward)

	d := p.Sub(cam.Position)
	depth := d.Dot(forward)
	if depth <= nearPlane {
		return ScreenPoint{}, false
	}

	fov := cam.FOVDegrees * math.Pi / 180
	focal := (height / 2) / math.Tan(fov/2)
	scale := focal / depth
	return ScreenPoint{
		X:     width/2 + d.Dot(right)*scale,
		Y:     height/2 - d.Dot(up)*scale,
		Scale: scale,
		Depth: depth,
	}, true
}

// RenderSystem 绘制棋盘（省份、补给中心、单位）
//
// 绘制顺序：省份底点 → 补给中心（光晕+归属色）→ 单位，同类对象按深度由远到近。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	camera        *CameraSystem
	board         *config.BoardConfig

	// referenceDepth 基础半径对应的深度，半径按 referenceDepth/depth 缩放
	referenceDepth float64
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, camera *CameraSystem, board *config.BoardConfig) *RenderSystem {
	cam := camera.Camera()
	return &RenderSystem{
		entityManager:  em,
		camera:         camera,
		board:          board,
		referenceDepth: cam.Position.Sub(cam.LookAt).Length(),
	}
}

type drawItem struct {
	point ScreenPoint
	draw  func(p ScreenPoint, radiusScale float32)
}

// Draw 绘制整个棋盘
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 32, B: 48, A: 255})

	bounds := screen.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	cam := s.camera.Camera()

	s.drawProvinces(screen, cam, w, h)

	var items []drawItem
	for _, id := range ecs.GetEntitiesWith2[*components.SupplyCenterComponent, *components.PositionComponent](s.entityManager) {
		sc, _ := ecs.GetComponent[*components.SupplyCenterComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		glow, hasGlow := ecs.GetComponent[*components.GlowComponent](s.entityManager, id)
		p, ok := Project(cam, utils.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}, w, h)
		if !ok {
			continue
		}
		owner := s.ownerColor(sc.Owner)
		items = append(items, drawItem{point: p, draw: func(p ScreenPoint, k float32) {
			r := float32(config.SupplyCenterRadius) * k
			if hasGlow {
				gc := withAlpha(owner, glow.Opacity)
				vector.FillCircle(screen, float32(p.X), float32(p.Y), r*2*float32(glow.Scale), gc, true)
			}
			vector.FillCircle(screen, float32(p.X), float32(p.Y), r, owner, true)
		}})
	}
	s.flush(items)

	items = items[:0]
	for _, id := range ecs.GetEntitiesWith2[*components.UnitComponent, *components.PositionComponent](s.entityManager) {
		unit, _ := ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		p, ok := Project(cam, utils.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}, w, h)
		if !ok || unit.Alpha <= 0 || unit.Scale <= 0 {
			continue
		}
		c := withAlpha(s.board.PowerColor(unit.Power), unit.Alpha)
		outline := withAlpha(color.RGBA{R: 20, G: 20, B: 20, A: 255}, unit.Alpha)
		unitType := unit.Type
		unitScale := float32(unit.Scale)
		items = append(items, drawItem{point: p, draw: func(p ScreenPoint, k float32) {
			r := float32(config.UnitRadius) * k * unitScale
			x, y := float32(p.X), float32(p.Y)
			if unitType == components.UnitTypeFleet {
				// 舰队画成方块
				vector.FillRect(screen, x-r, y-r*0.7, r*2, r*1.4, c, true)
				vector.StrokeRect(screen, x-r, y-r*0.7, r*2, r*1.4, 1.5, outline, true)
				return
			}
			vector.FillCircle(screen, x, y, r, c, true)
			vector.StrokeCircle(screen, x, y, r, 1.5, outline, true)
		}})
	}
	s.flush(items)
}

// drawProvinces 绘制省份底点
func (s *RenderSystem) drawProvinces(screen *ebiten.Image, cam *components.CameraComponent, w, h float64) {
	dot := color.RGBA{R: 90, G: 110, B: 130, A: 200}
	for _, prov := range s.board.Provinces {
		p, ok := Project(cam, utils.Vec3{X: prov.X, Z: prov.Z}, w, h)
		if !ok {
			continue
		}
		vector.FillCircle(screen, float32(p.X), float32(p.Y), 2*s.radiusScale(p), dot, true)
	}
}

// flush 按深度由远到近绘制
func (s *RenderSystem) flush(items []drawItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].point.Depth > items[j].point.Depth
	})
	for _, it := range items {
		it.draw(it.point, s.radiusScale(it.point))
	}
}

func (s *RenderSystem) radiusScale(p ScreenPoint) float32 {
	if s.referenceDepth <= 0 || p.Depth <= 0 {
		return 1
	}
	k := s.referenceDepth / p.Depth
	return float32(math.Max(0.3, math.Min(3, k)))
}

func (s *RenderSystem) ownerColor(owner string) color.RGBA {
	if owner == "" {
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
	return s.board.PowerColor(owner)
}

// withAlpha 按不透明度 a ∈ [0,1] 生成预乘 alpha 颜色
func withAlpha(c color.RGBA, a float64) color.RGBA {
	a = utils.Clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
