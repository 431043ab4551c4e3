package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/diplomacy-playback/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultBoardConfigPath 内置默认地图配置（embed）
const DefaultBoardConfigPath = "data/config/board.yaml"

// BoardConfig 地图配置
// 记录每个省份在棋盘平面（X-Z）上的坐标、补给中心列表以及各势力颜色
type BoardConfig struct {
	Provinces     map[string]ProvinceConfig `yaml:"provinces"`
	SupplyCenters []string                  `yaml:"supplyCenters"`
	Powers        map[string]PowerConfig    `yaml:"powers"`
}

// ProvinceConfig 省份坐标（世界坐标，Y 轴向上，地面 Y=0）
type ProvinceConfig struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// PowerConfig 势力显示配置
type PowerConfig struct {
	Color string `yaml:"color"` // 十六进制颜色，如 "#2E5AAC"
}

// LoadBoardConfig 加载地图配置，path 为空时读取内置默认地图
func LoadBoardConfig(path string) (*BoardConfig, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(DefaultBoardConfigPath)
		if errors.Is(err, embedded.ErrNotInitialized) {
			return nil, fmt.Errorf("no board config path given and embedded resources unavailable: %w", err)
		}
		path = DefaultBoardConfigPath
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board config file %s: %w", path, err)
	}

	cfg, err := ParseBoardConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid board config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseBoardConfig 解析并校验地图配置
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse board config YAML: %w", err)
	}

	if len(cfg.Provinces) == 0 {
		return nil, fmt.Errorf("at least one province is required")
	}
	for _, sc := range cfg.SupplyCenters {
		if _, ok := cfg.Provinces[sc]; !ok {
			return nil, fmt.Errorf("supply center %q has no province coordinates", sc)
		}
	}
	for name, p := range cfg.Powers {
		if _, err := ParseHexColor(p.Color); err != nil {
			return nil, fmt.Errorf("power %s: %w", name, err)
		}
	}
	return &cfg, nil
}

// ProvinceKey 规范化省份名称
// 订单里的省份可能带海岸后缀（"STP/SC"）或小写，统一为大写主省份名
func ProvinceKey(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return name
}

// Lookup 查询省份坐标
func (b *BoardConfig) Lookup(province string) (ProvinceConfig, bool) {
	p, ok := b.Provinces[ProvinceKey(province)]
	return p, ok
}

// PowerColor 返回势力颜色，未配置的势力使用灰色
func (b *BoardConfig) PowerColor(power string) color.RGBA {
	if p, ok := b.Powers[strings.ToUpper(power)]; ok {
		if c, err := ParseHexColor(p.Color); err == nil {
			return c
		}
	}
	return color.RGBA{R: 160, G: 160, B: 160, A: 255}
}

// ParseHexColor 解析 "#RRGGBB" 格式颜色
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
