package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testGameJSON = `{
  "id": "g1",
  "map": "standard",
  "phases": [
    {
      "name": "S1901M",
      "state": {
        "units": {"FRANCE": ["A PAR"], "ENGLAND": ["F LON"]},
        "centers": {"FRANCE": ["PAR", "BRE"], "ENGLAND": ["LON"]}
      },
      "orders": {"FRANCE": ["A PAR - BUR"]},
      "results": {},
      "messages": [
        {"sender": "FRANCE", "recipient": "ENGLAND", "message": "hello", "phase": "S1901M", "time_sent": 1}
      ]
    },
    {"name": "F1901M", "state": {"units": {}, "centers": {}}, "messages": []}
  ],
  "phase_summaries": {"F1901M": "quiet autumn"}
}`

// TestLoadGameData 测试对局 JSON 解析
func TestLoadGameData(t *testing.T) {
	gd, err := LoadGameData([]byte(testGameJSON))
	if err != nil {
		t.Fatalf("LoadGameData() failed: %v", err)
	}

	if gd.PhaseCount() != 2 {
		t.Fatalf("PhaseCount = %d, want 2", gd.PhaseCount())
	}

	p0 := gd.PhaseAt(0)
	if !p0.HasMessages() {
		t.Error("phase 0 should have messages")
	}
	if p0.Messages[0].Message != "hello" || p0.Messages[0].Recipient != "ENGLAND" {
		t.Errorf("unexpected message: %+v", p0.Messages[0])
	}
	if got := p0.CenterCount("FRANCE"); got != 2 {
		t.Errorf("CenterCount(FRANCE) = %d, want 2", got)
	}
	if powers := p0.Powers(); len(powers) != 2 || powers[0] != "ENGLAND" {
		t.Errorf("Powers() = %v, want [ENGLAND FRANCE]", powers)
	}

	p1 := gd.PhaseAt(1)
	if p1.HasMessages() {
		t.Error("phase 1 should have no messages")
	}
	// 顶层 phase_summaries 回填
	if p1.Summary != "quiet autumn" {
		t.Errorf("Summary = %q, want backfilled summary", p1.Summary)
	}

	if gd.PhaseAt(2) != nil || gd.PhaseAt(-1) != nil {
		t.Error("PhaseAt out of range should return nil")
	}
}

// TestLoadGameDataErrors 测试各类加载失败
func TestLoadGameDataErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"HTML 页面", "  <!DOCTYPE html><html></html>", ErrHTMLPayload},
		{"html 标签", "<html><body>404</body></html>", ErrHTMLPayload},
		{"空阶段", `{"phases": []}`, ErrNoPhases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGameData([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("非法 JSON", func(t *testing.T) {
		if _, err := LoadGameData([]byte(`{"phases": [`)); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("空内容", func(t *testing.T) {
		if _, err := LoadGameData(nil); err == nil {
			t.Error("expected error for empty payload")
		}
	})
}

// TestLoadGameFile 测试从磁盘加载
func TestLoadGameFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.json")
	if err := os.WriteFile(path, []byte(testGameJSON), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	gd, err := LoadGameFile(path)
	if err != nil {
		t.Fatalf("LoadGameFile() failed: %v", err)
	}
	if gd.ID != "g1" {
		t.Errorf("ID = %q, want g1", gd.ID)
	}

	if _, err := LoadGameFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want os.ErrNotExist", err)
	}
}

// TestPlaybackStatePendingAdvance 测试计时器标记
func TestPlaybackStatePendingAdvance(t *testing.T) {
	ps := NewPlaybackState()
	if ps.HasPendingAdvance() {
		t.Error("new state should have no pending advance")
	}
	ps.PlaybackTimer = 7
	if !ps.HasPendingAdvance() {
		t.Error("expected pending advance")
	}
}
