package game

import (
	"fmt"
	"strings"
)

// OrderKind 命令类型
type OrderKind int

const (
	OrderHold OrderKind = iota
	OrderMove
	OrderSupport
	OrderConvoy
	OrderRetreat
	OrderBuild
	OrderDisband
	OrderWaive
)

var orderKindNames = map[OrderKind]string{
	OrderHold:    "Hold",
	OrderMove:    "Move",
	OrderSupport: "Support",
	OrderConvoy:  "Convoy",
	OrderRetreat: "Retreat",
	OrderBuild:   "Build",
	OrderDisband: "Disband",
	OrderWaive:   "Waive",
}

func (k OrderKind) String() string {
	if name, ok := orderKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OrderKind(%d)", int(k))
}

// 结算结果中表示移动失败的标记
var failedMoveResults = []string{"bounce", "void", "no convoy", "dislodged"}

// Order 解析后的一条命令
//
// 常见格式：
//
//	A PAR H            驻守
//	A PAR - BUR        移动（可带 VIA）
//	A MAR S A PAR - BUR 支援
//	F ENG C A LON - BRE 护航
//	A PAR R BUR        撤退
//	F STP/SC B         建造
//	A PAR D            解散
//	WAIVE              放弃建造
type Order struct {
	Raw      string
	Kind     OrderKind
	UnitType string // "A" / "F"，WAIVE 时为空
	Province string // 下达命令的单位所在省份（保留海岸后缀）
	Target   string // 移动/撤退目标省份
}

// Unit 返回命令所属单位的描述（"A PAR"），用作结算结果的键
func (o Order) Unit() string {
	if o.UnitType == "" {
		return ""
	}
	return o.UnitType + " " + o.Province
}

// ParseOrder 解析一条命令
func ParseOrder(raw string) (Order, error) {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(raw)))
	if len(fields) == 1 && fields[0] == "WAIVE" {
		return Order{Raw: raw, Kind: OrderWaive}, nil
	}
	if len(fields) < 3 {
		return Order{}, fmt.Errorf("invalid order %q: too few fields", raw)
	}
	if fields[0] != "A" && fields[0] != "F" {
		return Order{}, fmt.Errorf("invalid order %q: unknown unit type %q", raw, fields[0])
	}

	o := Order{Raw: raw, UnitType: fields[0], Province: fields[1]}
	switch fields[2] {
	case "H":
		o.Kind = OrderHold
	case "-":
		if len(fields) < 4 {
			return Order{}, fmt.Errorf("invalid order %q: move without target", raw)
		}
		o.Kind = OrderMove
		o.Target = fields[3]
	case "R":
		if len(fields) < 4 {
			return Order{}, fmt.Errorf("invalid order %q: retreat without target", raw)
		}
		o.Kind = OrderRetreat
		o.Target = fields[3]
	case "S":
		o.Kind = OrderSupport
	case "C":
		o.Kind = OrderConvoy
	case "B":
		o.Kind = OrderBuild
	case "D":
		o.Kind = OrderDisband
	default:
		return Order{}, fmt.Errorf("invalid order %q: unknown order type %q", raw, fields[2])
	}
	return o, nil
}

// MoveFailed 根据阶段结算结果判断移动/撤退是否失败
func (p *Phase) MoveFailed(o Order) bool {
	for _, r := range p.Results[o.Unit()] {
		r = strings.ToLower(strings.TrimSpace(r))
		for _, failed := range failedMoveResults {
			if r == failed {
				return true
			}
		}
	}
	return false
}
