package systems

import (
	"log"
	"sort"
	"strings"

	"github.com/decker502/diplomacy-playback/pkg/components"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/ecs"
	"github.com/decker502/diplomacy-playback/pkg/entities"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/decker502/diplomacy-playback/pkg/utils"
)

// BoardAnimationFactory 根据阶段命令生成单位动画
//
// 步骤：
//  1. 棋盘已摆成 prev 局面（由序列器先调用 PlacePhase(prev)）
//  2. prev 的移动/撤退命令：成功的生成移动动画，失败的生成弹回动画
//  3. 与 next 局面对账：多出的单位解散，缺少的单位建造
//
// 因此动画全部结束后棋盘与 next 局面一致。
type BoardAnimationFactory struct {
	entityManager *ecs.EntityManager
	board         *config.BoardConfig
	cfg           config.UnitConfig
}

// NewBoardAnimationFactory 创建动画工厂
func NewBoardAnimationFactory(em *ecs.EntityManager, board *config.BoardConfig, cfg config.UnitConfig) *BoardAnimationFactory {
	return &BoardAnimationFactory{entityManager: em, board: board, cfg: cfg}
}

// PlacePhase 立即把棋盘摆成 phase 的局面
func (f *BoardAnimationFactory) PlacePhase(phase *game.Phase) {
	entities.PlacePhaseUnits(f.entityManager, f.board, phase, f.cfg.Height)
}

// boardUnit 棋盘上一个单位在本次过渡中的去向
type boardUnit struct {
	id    ecs.EntityID
	power string
	typ   components.UnitType
	from  string
	dest  string
	moved bool
}

type unitKey struct {
	power    string
	typ      components.UnitType
	province string
}

// CreateAnimationsForPhase 为 prev → next 创建动画
func (f *BoardAnimationFactory) CreateAnimationsForPhase(prev, next *game.Phase) []AnimationHandle {
	if prev == nil || next == nil {
		return nil
	}
	em := f.entityManager

	units := f.currentUnits()
	byProvince := make(map[string]*boardUnit, len(units))
	for _, u := range units {
		byProvince[u.from] = u
	}

	var handles []AnimationHandle
	for _, power := range sortedKeys(prev.Orders) {
		for _, raw := range prev.Orders[power] {
			order, err := game.ParseOrder(raw)
			if err != nil {
				log.Printf("[BoardAnimationFactory] Skipping order: %v", err)
				continue
			}
			if order.Kind != game.OrderMove && order.Kind != game.OrderRetreat {
				continue
			}
			u := byProvince[config.ProvinceKey(order.Province)]
			if u == nil || u.power != strings.ToUpper(power) {
				log.Printf("[BoardAnimationFactory] No %s unit at %s for order %q", power, order.Province, raw)
				continue
			}
			target, ok := f.board.Lookup(order.Target)
			if !ok {
				log.Printf("[BoardAnimationFactory] Unknown target province in order %q", raw)
				continue
			}
			to := utils.Vec3{X: target.X, Y: f.cfg.Height, Z: target.Z}

			if prev.MoveFailed(order) {
				handles = append(handles, entities.NewBounceAnimation(em, u.id, to, f.cfg))
				continue
			}
			u.dest = config.ProvinceKey(order.Target)
			u.moved = true
			handles = append(handles, entities.NewMoveAnimation(em, u.id, to, u.dest, f.cfg))
		}
	}

	// 对账：next 局面中应存在的单位
	expected := make(map[unitKey]bool)
	for power, list := range next.State.Units {
		for _, desc := range list {
			typ, province, err := entities.ParseUnit(desc)
			if err != nil {
				log.Printf("[BoardAnimationFactory] Skipping unit in %s: %v", next.Name, err)
				continue
			}
			expected[unitKey{strings.ToUpper(power), typ, province}] = true
		}
	}

	for _, u := range units {
		k := unitKey{u.power, u.typ, u.dest}
		if expected[k] {
			delete(expected, k)
			continue
		}
		a := entities.NewDisbandAnimation(em, u.id, f.cfg)
		if u.moved {
			a.WithDelay(f.cfg.MoveDurationMs)
		}
		handles = append(handles, a)
	}

	missing := make([]unitKey, 0, len(expected))
	for k := range expected {
		missing = append(missing, k)
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].power != missing[j].power {
			return missing[i].power < missing[j].power
		}
		return missing[i].province < missing[j].province
	})
	for _, k := range missing {
		id, err := entities.NewUnitEntity(em, f.board, k.power, string(k.typ)+" "+k.province, f.cfg.Height)
		if err != nil {
			log.Printf("[BoardAnimationFactory] Cannot build unit: %v", err)
			continue
		}
		handles = append(handles, entities.NewBuildAnimation(em, id, f.cfg))
	}

	entities.UpdateCenterOwners(em, next)
	log.Printf("[BoardAnimationFactory] %s -> %s: %d animations", prev.Name, next.Name, len(handles))
	return handles
}

// currentUnits 棋盘上的单位（按实体ID排序）
func (f *BoardAnimationFactory) currentUnits() []*boardUnit {
	ids := ecs.GetEntitiesWith1[*components.UnitComponent](f.entityManager)
	units := make([]*boardUnit, 0, len(ids))
	for _, id := range ids {
		unit, _ := ecs.GetComponent[*components.UnitComponent](f.entityManager, id)
		units = append(units, &boardUnit{
			id:    id,
			power: unit.Power,
			typ:   unit.Type,
			from:  unit.Province,
			dest:  unit.Province,
		})
	}
	return units
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
