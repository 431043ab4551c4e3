package components

// UnitType 单位类型
type UnitType string

const (
	// UnitTypeArmy 陆军
	UnitTypeArmy UnitType = "A"

	// UnitTypeFleet 舰队
	UnitTypeFleet UnitType = "F"
)

// UnitComponent 棋盘上的一个单位
type UnitComponent struct {
	// Power 所属势力，如 "FRANCE"
	Power string

	// Type 单位类型（A/F）
	Type UnitType

	// Province 当前所在省份（已规范化，不含海岸后缀）
	Province string

	// Scale 显示缩放（生成/解散动画使用）
	Scale float64

	// Alpha 显示不透明度（解散动画使用）
	Alpha float64
}

// SupplyCenterComponent 补给中心标记
type SupplyCenterComponent struct {
	// Province 所在省份
	Province string

	// Owner 当前归属势力，空字符串表示中立
	Owner string
}
