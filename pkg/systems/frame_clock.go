package systems

// FrameHook 一个逐帧更新步骤
type FrameHook struct {
	Name   string
	Update func(dtMs float64)
}

// FrameClock 帧时钟
//
// 本身不持有任何回放状态，只按注册顺序每帧调用各更新步骤。
// 由 ebiten 的 Update 驱动，没有取消路径；任何步骤 panic 都不会在这里被捕获。
type FrameClock struct {
	hooks []FrameHook
	ticks uint64
}

// NewFrameClock 创建帧时钟
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Register 追加一个更新步骤，执行顺序即注册顺序
func (fc *FrameClock) Register(name string, update func(dtMs float64)) {
	fc.hooks = append(fc.hooks, FrameHook{Name: name, Update: update})
}

// Tick 执行一帧
func (fc *FrameClock) Tick(dtMs float64) {
	fc.ticks++
	for _, h := range fc.hooks {
		h.Update(dtMs)
	}
}

// Ticks 已执行的帧数
func (fc *FrameClock) Ticks() uint64 {
	return fc.ticks
}

// HookNames 返回已注册步骤名称（按执行顺序）
func (fc *FrameClock) HookNames() []string {
	names := make([]string, len(fc.hooks))
	for i, h := range fc.hooks {
		names[i] = h.Name
	}
	return names
}
