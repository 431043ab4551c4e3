package systems

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/game"
	"github.com/decker502/diplomacy-playback/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelBg     = color.RGBA{R: 10, G: 14, B: 20, A: 220}
	panelBorder = color.RGBA{R: 70, G: 90, B: 110, A: 255}
	textColor   = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dimColor    = color.RGBA{R: 150, G: 160, B: 170, A: 255}
)

// OverlayRenderSystem 叠加层：聊天窗口、积分榜、信息面板
//
// 实现 ChatWindows 和 StandingsOverlay，核心只调用显示/隐藏，不读取任何数据。
type OverlayRenderSystem struct {
	face       *text.GoTextFace
	board      *config.BoardConfig
	maxVisible int

	chatPhase *game.Phase
	chat      []RevealedMessage

	standingsVisible bool
	standingsPhase   *game.Phase
}

// NewOverlayFace 创建叠加层字体（内置 Go Regular）
func NewOverlayFace(size float64) (*text.GoTextFace, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay font source: %w", err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}

// NewOverlayRenderSystem 创建叠加层渲染系统，face 为 nil 时只记录状态不绘制文字
func NewOverlayRenderSystem(face *text.GoTextFace, board *config.BoardConfig, maxVisible int) *OverlayRenderSystem {
	if maxVisible <= 0 {
		maxVisible = 8
	}
	return &OverlayRenderSystem{face: face, board: board, maxVisible: maxVisible}
}

// ShowMessages 显示阶段消息（实现 ChatWindows）
func (o *OverlayRenderSystem) ShowMessages(phase *game.Phase, revealed []RevealedMessage) {
	o.chatPhase = phase
	o.chat = append(o.chat[:0:0], revealed...)
}

// Clear 清空聊天窗口（实现 ChatWindows）
func (o *OverlayRenderSystem) Clear() {
	o.chatPhase = nil
	o.chat = nil
}

// VisibleMessages 聊天窗口中实际可见的消息（最近 maxVisible 条）
func (o *OverlayRenderSystem) VisibleMessages() []RevealedMessage {
	if len(o.chat) <= o.maxVisible {
		return o.chat
	}
	return o.chat[len(o.chat)-o.maxVisible:]
}

// Show 显示积分榜（实现 StandingsOverlay）
// phase 为 nil 时显示空积分榜（尚未加载对局）
func (o *OverlayRenderSystem) Show(phase *game.Phase) {
	o.standingsVisible = true
	o.standingsPhase = phase
}

// Hide 隐藏积分榜（实现 StandingsOverlay）
func (o *OverlayRenderSystem) Hide() {
	o.standingsVisible = false
	o.standingsPhase = nil
}

// StandingsVisible 积分榜是否可见
func (o *OverlayRenderSystem) StandingsVisible() bool {
	return o.standingsVisible
}

// Draw 绘制全部叠加层
func (o *OverlayRenderSystem) Draw(screen *ebiten.Image, status PlaybackStatus, caption, hint string) {
	if o.face == nil {
		return
	}
	o.drawInfoPanel(screen, status, caption, hint)
	o.drawChat(screen)
	if o.standingsVisible {
		o.drawStandings(screen)
	}
}

func (o *OverlayRenderSystem) drawInfoPanel(screen *ebiten.Image, status PlaybackStatus, caption, hint string) {
	lines := []string{status.String()}
	if status.MessagesPlaying {
		lines = append(lines, "Messages playing...")
	}
	if hint != "" {
		lines = append(lines, hint)
	}
	if caption != "" {
		lines = append(lines, utils.WrapText(caption, o.face, config.ChatPanelWidth)...)
	}

	h := float32(len(lines))*config.OverlayLineHeight + 12
	vector.FillRect(screen, config.InfoPanelX, config.InfoPanelY, config.ChatPanelWidth+16, h, panelBg, false)
	vector.StrokeRect(screen, config.InfoPanelX, config.InfoPanelY, config.ChatPanelWidth+16, h, 1, panelBorder, false)
	y := config.InfoPanelY + 6
	for i, line := range lines {
		c := textColor
		if i > 0 {
			c = dimColor
		}
		o.drawText(screen, line, config.InfoPanelX+8, y, c)
		y += config.OverlayLineHeight
	}
}

func (o *OverlayRenderSystem) drawChat(screen *ebiten.Image) {
	visible := o.VisibleMessages()
	if o.chatPhase == nil || len(visible) == 0 {
		return
	}

	type chatLine struct {
		text  string
		color color.RGBA
	}
	var lines []chatLine
	for _, m := range visible {
		header := fmt.Sprintf("%s -> %s", m.Message.Sender, m.Message.Recipient)
		lines = append(lines, chatLine{header, o.board.PowerColor(m.Message.Sender)})
		for _, l := range utils.WrapText(m.Text, o.face, config.ChatPanelWidth-16) {
			lines = append(lines, chatLine{l, textColor})
		}
	}

	h := float32(len(lines)+1)*config.OverlayLineHeight + 12
	vector.FillRect(screen, config.ChatPanelX, config.ChatPanelY, config.ChatPanelWidth, h, panelBg, false)
	vector.StrokeRect(screen, config.ChatPanelX, config.ChatPanelY, config.ChatPanelWidth, h, 1, panelBorder, false)

	y := config.ChatPanelY + 6
	o.drawText(screen, "Messages "+o.chatPhase.Name, config.ChatPanelX+8, y, dimColor)
	y += config.OverlayLineHeight
	for _, l := range lines {
		o.drawText(screen, l.text, config.ChatPanelX+8, y, l.color)
		y += config.OverlayLineHeight
	}
}

func (o *OverlayRenderSystem) drawStandings(screen *ebiten.Image) {
	title := "Standings"
	var standings []game.Standing
	if o.standingsPhase != nil {
		title = "Standings after " + o.standingsPhase.Name
		standings = o.standingsPhase.Standings()
	}
	h := float32(len(standings)+2)*config.OverlayLineHeight + 12
	vector.FillRect(screen, config.StandingsPanelX, config.StandingsPanelY, config.StandingsPanelWidth, h, panelBg, false)
	vector.StrokeRect(screen, config.StandingsPanelX, config.StandingsPanelY, config.StandingsPanelWidth, h, 1, panelBorder, false)

	y := config.StandingsPanelY + 6
	o.drawText(screen, title, config.StandingsPanelX+8, y, textColor)
	y += config.OverlayLineHeight * 2
	for _, s := range standings {
		line := fmt.Sprintf("%-10s %2d centers  %2d units", s.Power, s.Centers, s.Units)
		o.drawText(screen, line, config.StandingsPanelX+8, y, o.board.PowerColor(s.Power))
		y += config.OverlayLineHeight
	}
}

func (o *OverlayRenderSystem) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, o.face, op)
}
