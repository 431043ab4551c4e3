package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapText 将文本按指定像素宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 优先在空格处断行
//   - 单词本身超过最大宽度时按字符强制断行
//   - 文本中的 '\n' 保留为硬换行
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if textStr == "" || font == nil || maxWidth <= 0 {
		return []string{textStr}
	}
	return wrapWith(textStr, maxWidth, func(s string) float64 {
		return measureTextWidth(s, font)
	})
}

// WrapColumns 按字符列数换行（等宽场景、日志、测试）
func WrapColumns(textStr string, columns int) []string {
	if textStr == "" || columns <= 0 {
		return []string{textStr}
	}
	return wrapWith(textStr, float64(columns), func(s string) float64 {
		return float64(utf8.RuneCountInString(s))
	})
}

// wrapWith 通用换行实现，measure 返回一段文本的宽度
func wrapWith(textStr string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(textStr, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxWidth, measure)...)
	}
	return lines
}

func wrapParagraph(paragraph string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		// 单词本身超宽，按字符切开
		for measure(word) > maxWidth {
			cut := breakPoint(word, maxWidth, measure)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakPoint 返回 word 在 maxWidth 内能容纳的最大字节前缀长度（至少一个字符）
func breakPoint(word string, maxWidth float64, measure func(string) float64) int {
	cut := 0
	for i, r := range word {
		end := i + utf8.RuneLen(r)
		if measure(word[:end]) > maxWidth {
			break
		}
		cut = end
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return cut
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}

	width, _ := text.Measure(textStr, font, 0)
	return width
}
