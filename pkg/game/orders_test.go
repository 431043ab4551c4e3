package game

import (
	"strings"
	"testing"
)

// TestParseOrder 测试命令解析
func TestParseOrder(t *testing.T) {
	tests := []struct {
		raw      string
		kind     OrderKind
		unit     string
		target   string
		province string
	}{
		{"A PAR H", OrderHold, "A PAR", "", "PAR"},
		{"A PAR - BUR", OrderMove, "A PAR", "BUR", "PAR"},
		{"a par - bur via", OrderMove, "A PAR", "BUR", "PAR"},
		{"F STP/SC - BOT", OrderMove, "F STP/SC", "BOT", "STP/SC"},
		{"A MAR S A PAR - BUR", OrderSupport, "A MAR", "", "MAR"},
		{"F ENG C A LON - BRE", OrderConvoy, "F ENG", "", "ENG"},
		{"A PAR R GAS", OrderRetreat, "A PAR", "GAS", "PAR"},
		{"F BRE B", OrderBuild, "F BRE", "", "BRE"},
		{"A MUN D", OrderDisband, "A MUN", "", "MUN"},
		{"WAIVE", OrderWaive, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			o, err := ParseOrder(tt.raw)
			if err != nil {
				t.Fatalf("ParseOrder(%q) failed: %v", tt.raw, err)
			}
			if o.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", o.Kind, tt.kind)
			}
			if o.Unit() != tt.unit {
				t.Errorf("Unit() = %q, want %q", o.Unit(), tt.unit)
			}
			if o.Target != tt.target {
				t.Errorf("Target = %q, want %q", o.Target, tt.target)
			}
			if o.Province != tt.province {
				t.Errorf("Province = %q, want %q", o.Province, tt.province)
			}
		})
	}
}

// TestParseOrderErrors 测试非法命令
func TestParseOrderErrors(t *testing.T) {
	for _, raw := range []string{"", "A PAR", "X PAR H", "A PAR -", "A PAR R", "A PAR Q"} {
		if _, err := ParseOrder(raw); err == nil {
			t.Errorf("ParseOrder(%q) should fail", raw)
		}
	}
}

// TestMoveFailed 测试根据结算结果判断移动失败
func TestMoveFailed(t *testing.T) {
	p := &Phase{Results: map[string][]string{
		"A VIE": {"bounce"},
		"A WAR": {"Void"},
		"A PAR": {},
		"A MAR": {"cut"},
	}}
	tests := []struct {
		raw  string
		want bool
	}{
		{"A VIE - GAL", true},
		{"A WAR - GAL", true},
		{"A PAR - BUR", false},
		{"A MAR - SPA", false},
		{"A MUN - RUH", false},
	}
	for _, tt := range tests {
		o, err := ParseOrder(tt.raw)
		if err != nil {
			t.Fatalf("ParseOrder(%q) failed: %v", tt.raw, err)
		}
		if got := p.MoveFailed(o); got != tt.want {
			t.Errorf("MoveFailed(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// TestStandingsAndReport 测试积分排序和文本报告
func TestStandingsAndReport(t *testing.T) {
	p := &Phase{
		Name:    "W1901A",
		Summary: "France grows.",
		State: PhaseState{
			Units:   map[string][]string{"FRANCE": {"A PAR", "A BUR"}, "ENGLAND": {"F LON"}, "ITALY": {"A ROM"}},
			Centers: map[string][]string{"FRANCE": {"PAR", "BRE", "MAR", "SPA"}, "ENGLAND": {"LON"}, "ITALY": {"ROM"}},
		},
	}

	standings := p.Standings()
	if len(standings) != 3 {
		t.Fatalf("len(Standings) = %d, want 3", len(standings))
	}
	if standings[0].Power != "FRANCE" || standings[0].Centers != 4 || standings[0].Units != 2 {
		t.Errorf("first standing = %+v, want FRANCE 4/2", standings[0])
	}
	// 补给中心相同时按名称排序
	if standings[1].Power != "ENGLAND" || standings[2].Power != "ITALY" {
		t.Errorf("tie order = %s, %s; want ENGLAND, ITALY", standings[1].Power, standings[2].Power)
	}

	report := p.Report()
	for _, want := range []string{"W1901A", "France grows.", "FRANCE: 4 centers, 2 units"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report() missing %q:\n%s", want, report)
		}
	}
}
