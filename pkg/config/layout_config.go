package config

// 布局配置常量
// 本文件定义了回放窗口的逻辑尺寸和各叠加层（聊天窗口、积分榜、信息面板）的位置

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1280

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 720

	// OverlayFontSize 叠加层文字字号
	OverlayFontSize = 14.0

	// OverlayLineHeight 叠加层行高
	OverlayLineHeight = 18.0

	// ChatPanelX 聊天窗口左上角X坐标（右侧栏）
	ChatPanelX = 900.0

	// ChatPanelY 聊天窗口左上角Y坐标
	ChatPanelY = 16.0

	// ChatPanelWidth 聊天窗口宽度
	ChatPanelWidth = 364.0

	// ChatWrapColumns 聊天文字折行列数
	ChatWrapColumns = 48

	// StandingsPanelX 积分榜左上角X坐标（屏幕居中）
	StandingsPanelX = 440.0

	// StandingsPanelY 积分榜左上角Y坐标
	StandingsPanelY = 180.0

	// StandingsPanelWidth 积分榜宽度
	StandingsPanelWidth = 400.0

	// InfoPanelX 信息面板左上角X坐标
	InfoPanelX = 16.0

	// InfoPanelY 信息面板左上角Y坐标
	InfoPanelY = 16.0

	// UnitRadius 单位在屏幕上的基础半径（按透视缩放前，像素）
	UnitRadius = 9.0

	// SupplyCenterRadius 补给中心标记基础半径
	SupplyCenterRadius = 5.0
)
