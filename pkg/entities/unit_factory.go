package entities

import (
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/game"
)

// SupplyCenterBaseY 补给中心标记的基础高度（浮动围绕该高度）
const SupplyCenterBaseY = 2.0

// ParseUnit 解析单位描述，如 "A PAR"、"F STP/SC"
//
// 返回单位类型和规范化后的省份名；格式不合法时返回错误
func ParseUnit(desc string) (components.UnitType, string, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(desc), "*"))
	if len(fields) != 2 {
		return "", "", fmt.Errorf("invalid unit %q: expected \"<A|F> <PROVINCE>\"", desc)
	}
	unitType := components.UnitType(strings.ToUpper(fields[0]))
	if unitType != components.UnitTypeArmy && unitType != components.UnitTypeFleet {
		return "", "", fmt.Errorf("invalid unit type %q in %q", fields[0], desc)
	}
	return unitType, config.ProvinceKey(fields[1]), nil
}

// NewUnitEntity 创建单位实体
//
// 参数:
//   - em: 实体管理器
//   - board: 地图配置（省份坐标）
//   - power: 所属势力
//   - desc: 单位描述，如 "A PAR"
//   - height: 单位离地高度
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 单位格式非法或省份没有坐标
func NewUnitEntity(em *ecs.EntityManager, board *config.BoardConfig, power, desc string, height float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	unitType, province, err := ParseUnit(desc)
	if err != nil {
		return 0, err
	}
	coord, ok := board.Lookup(province)
	if !ok {
		return 0, fmt.Errorf("unknown province %q for unit %q", province, desc)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: coord.X, Y: height, Z: coord.Z})
	ecs.AddComponent(em, id, &components.UnitComponent{
		Power:    strings.ToUpper(power),
		Type:     unitType,
		Province: province,
		Scale:    1,
		Alpha:    1,
	})
	return id, nil
}

// NewSupplyCenterEntity 创建补给中心标记实体（带脉动效果和光晕）
//
// 每个标记的初始相位由省份名哈希决定，避免所有标记同步脉动。
func NewSupplyCenterEntity(em *ecs.EntityManager, board *config.BoardConfig, province string, pulse config.PulseConfig) (ecs.EntityID, error) {
	province = config.ProvinceKey(province)
	coord, ok := board.Lookup(province)
	if !ok {
		return 0, fmt.Errorf("unknown supply center province %q", province)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: coord.X, Y: SupplyCenterBaseY, Z: coord.Z})
	ecs.AddComponent(em, id, &components.SupplyCenterComponent{Province: province})
	ecs.AddComponent(em, id, &components.PulseAnimationComponent{
		Time:      pulsePhaseOffset(province),
		Speed:     pulse.Speed,
		Intensity: pulse.Intensity,
	})
	ecs.AddComponent(em, id, &components.GlowComponent{Opacity: 0.35, Scale: 1})
	return id, nil
}

// pulsePhaseOffset 根据省份名得到 [0, 2π) 内的确定性相位
func pulsePhaseOffset(province string) float64 {
	h := fnv.New32a()
	h.Write([]byte(province))
	return float64(h.Sum32()%1000) / 1000 * 2 * math.Pi
}

// BuildSupplyCenters 为地图上所有补给中心创建标记实体
func BuildSupplyCenters(em *ecs.EntityManager, board *config.BoardConfig, pulse config.PulseConfig) (map[string]ecs.EntityID, error) {
	centers := make(map[string]ecs.EntityID, len(board.SupplyCenters))
	for _, sc := range board.SupplyCenters {
		id, err := NewSupplyCenterEntity(em, board, sc, pulse)
		if err != nil {
			return nil, err
		}
		centers[config.ProvinceKey(sc)] = id
	}
	log.Printf("[UnitFactory] Created %d supply center markers", len(centers))
	return centers, nil
}

// UpdateCenterOwners 按阶段局面更新补给中心归属，不在局面中的中心视为中立
func UpdateCenterOwners(em *ecs.EntityManager, phase *game.Phase) {
	owners := make(map[string]string)
	if phase != nil {
		for power, centers := range phase.State.Centers {
			for _, c := range centers {
				owners[config.ProvinceKey(c)] = strings.ToUpper(power)
			}
		}
	}
	for _, id := range ecs.GetEntitiesWith1[*components.SupplyCenterComponent](em) {
		sc, _ := ecs.GetComponent[*components.SupplyCenterComponent](em, id)
		sc.Owner = owners[sc.Province]
	}
}

// ClearUnits 删除所有单位实体（立即删除）
func ClearUnits(em *ecs.EntityManager) {
	for _, id := range ecs.GetEntitiesWith1[*components.UnitComponent](em) {
		em.DestroyEntity(id)
	}
	em.RemoveMarkedEntities()
}

// PlacePhaseUnits 清空棋盘并按阶段局面摆放单位（无插值）
//
// 无法识别的单位记录日志后跳过；返回 省份 → 单位实体 的映射。
func PlacePhaseUnits(em *ecs.EntityManager, board *config.BoardConfig, phase *game.Phase, height float64) map[string]ecs.EntityID {
	ClearUnits(em)
	UpdateCenterOwners(em, phase)

	placed := make(map[string]ecs.EntityID)
	if phase == nil {
		return placed
	}

	powers := make([]string, 0, len(phase.State.Units))
	for power := range phase.State.Units {
		powers = append(powers, power)
	}
	sort.Strings(powers)

	for _, power := range powers {
		for _, desc := range phase.State.Units[power] {
			id, err := NewUnitEntity(em, board, power, desc, height)
			if err != nil {
				log.Printf("[UnitFactory] Skipping unit: %v", err)
				continue
			}
			unit, _ := ecs.GetComponent[*components.UnitComponent](em, id)
			placed[unit.Province] = id
		}
	}
	return placed
}
