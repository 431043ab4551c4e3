package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/decker502/diplomacy-playback/pkg/embedded"
)

// DefaultGameFilePath 调试/直播模式使用的内置默认对局
const DefaultGameFilePath = "data/default_game.json"

var (
	// ErrNoPhases 对局文件中没有任何阶段
	ErrNoPhases = errors.New("game data contains no phases")

	// ErrHTMLPayload 读到的是 HTML 页面而不是 JSON（路径错误时常见）
	ErrHTMLPayload = errors.New("received HTML instead of JSON, check the file path")
)

// GameData 一局外交游戏的完整回放数据
// 由对局生成器导出（JSON），回放核心只读
type GameData struct {
	ID             string            `json:"id"`
	Map            string            `json:"map"`
	Phases         []Phase           `json:"phases"`
	PhaseSummaries map[string]string `json:"phase_summaries,omitempty"`
}

// Phase 一个离散阶段（回合）的快照
//
// State 是本阶段开始时的局面，Orders/Results 是本阶段内下达的命令及其结算结果，
// 因此从阶段 k 过渡到阶段 k+1 的动画由阶段 k 的命令驱动。
type Phase struct {
	Name     string              `json:"name"`
	State    PhaseState          `json:"state"`
	Orders   map[string][]string `json:"orders"`
	Results  map[string][]string `json:"results"`
	Messages []Message           `json:"messages"`
	Summary  string              `json:"summary,omitempty"`
}

// PhaseState 阶段开始时的单位与补给中心归属
type PhaseState struct {
	Units   map[string][]string `json:"units"`   // 势力 -> ["A PAR", "F BRE"]
	Centers map[string][]string `json:"centers"` // 势力 -> ["PAR", "BRE"]
}

// Message 一条外交消息
type Message struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	Phase     string `json:"phase"`
	TimeSent  int64  `json:"time_sent"`
}

// HasMessages 阶段是否包含外交消息
func (p *Phase) HasMessages() bool {
	return p != nil && len(p.Messages) > 0
}

// Powers 返回本阶段出现的势力名称（排序后）
func (p *Phase) Powers() []string {
	seen := make(map[string]struct{})
	for power := range p.State.Units {
		seen[power] = struct{}{}
	}
	for power := range p.State.Centers {
		seen[power] = struct{}{}
	}
	powers := make([]string, 0, len(seen))
	for power := range seen {
		powers = append(powers, power)
	}
	sort.Strings(powers)
	return powers
}

// CenterCount 返回指定势力的补给中心数量
func (p *Phase) CenterCount(power string) int {
	return len(p.State.Centers[power])
}

// Standing 一个势力的积分（补给中心数和单位数）
type Standing struct {
	Power   string
	Centers int
	Units   int
}

// Standings 按补给中心数降序（相同时按名称）返回各势力积分
func (p *Phase) Standings() []Standing {
	powers := p.Powers()
	standings := make([]Standing, 0, len(powers))
	for _, power := range powers {
		standings = append(standings, Standing{
			Power:   power,
			Centers: len(p.State.Centers[power]),
			Units:   len(p.State.Units[power]),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Centers != standings[j].Centers {
			return standings[i].Centers > standings[j].Centers
		}
		return standings[i].Power < standings[j].Power
	})
	return standings
}

// Report 生成阶段的纯文本报告（剪贴板导出）
func (p *Phase) Report() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString("\n")
	if p.Summary != "" {
		b.WriteString(p.Summary)
		b.WriteString("\n")
	}
	for _, s := range p.Standings() {
		fmt.Fprintf(&b, "%s: %d centers, %d units\n", s.Power, s.Centers, s.Units)
	}
	return b.String()
}

// PhaseCount 阶段总数
func (g *GameData) PhaseCount() int {
	if g == nil {
		return 0
	}
	return len(g.Phases)
}

// PhaseAt 返回索引对应的阶段，越界返回 nil
func (g *GameData) PhaseAt(index int) *Phase {
	if g == nil || index < 0 || index >= len(g.Phases) {
		return nil
	}
	return &g.Phases[index]
}

// LoadGameData 解析对局 JSON
//
// 参数：
//   - data: 原始文件内容
//
// 返回：
//   - *GameData: 解析后的数据（保证至少有一个阶段）
//   - error: 内容为 HTML、JSON 非法或没有阶段时返回错误
func LoadGameData(data []byte) (*GameData, error) {
	trimmed := bytes.TrimSpace(data)
	lower := strings.ToLower(string(trimmed[:min(len(trimmed), 15)]))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		return nil, ErrHTMLPayload
	}

	var gd GameData
	if err := json.Unmarshal(trimmed, &gd); err != nil {
		return nil, fmt.Errorf("failed to parse game JSON: %w", err)
	}
	if len(gd.Phases) == 0 {
		return nil, ErrNoPhases
	}

	// 兼容旧格式：顶层 phase_summaries 回填到各阶段
	for i := range gd.Phases {
		if gd.Phases[i].Summary == "" {
			if s, ok := gd.PhaseSummaries[gd.Phases[i].Name]; ok {
				gd.Phases[i].Summary = s
			}
		}
	}
	return &gd, nil
}

// LoadGameFile 从磁盘读取并解析对局文件
func LoadGameFile(path string) (*GameData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game file %s: %w", path, err)
	}
	gd, err := LoadGameData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load game file %s: %w", path, err)
	}
	return gd, nil
}

// LoadDefaultGame 读取内置默认对局（调试/直播模式）
func LoadDefaultGame() (*GameData, error) {
	data, err := embedded.ReadFile(DefaultGameFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load default game file: %w", err)
	}
	gd, err := LoadGameData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load default game file: %w", err)
	}
	return gd, nil
}
