package parser

import (
	"testing"

	"szexam/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Line
	}{
		{"section header", "2025年3月时事政治题库", SectionHeader{Year: 2025, Month: 3}},
		{"section header with surrounding text", "最新 2024年12月时事政治题库（一）", SectionHeader{Year: 2024, Month: 12}},
		{"question start", "1. 下列哪项正确？", QuestionStart{Ordinal: 1, Text: "下列哪项正确？"}},
		{"question start without space", "52.关于某会议，说法正确的是", QuestionStart{Ordinal: 52, Text: "关于某会议，说法正确的是"}},
		{"full width question start", "１２．下列说法正确的是", QuestionStart{Ordinal: 12, Text: "下列说法正确的是"}},
		{"answer", "【正确答案】B", AnswerLine{Answer: "B"}},
		{"multi answer", "【正确答案】ACD", AnswerLine{Answer: "ACD"}},
		{"option", "A. 选项一", OptionLine{Key: domain.OptionA, Text: "选项一"}},
		{"full width option", "Ｄ．选项四", OptionLine{Key: domain.OptionD, Text: "选项四"}},
		{"continuation", "继续描述的内容", Continuation{Text: "继续描述的内容"}},
		{"lowercase letter is continuation", "a. 不是选项", Continuation{Text: "a. 不是选项"}},
		{"option E is continuation", "E. 不是选项", Continuation{Text: "E. 不是选项"}},
		{"page number", "17", Noise{Text: "17"}},
		{"ad", "关注师达教育获取最新资料", Noise{Text: "关注师达教育获取最新资料"}},
		{"contact", "咨询：12345678 微信同号", Noise{Text: "咨询：12345678 微信同号"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassify_NoiseWinsOverEverything(t *testing.T) {
	// A header carrying an ad is still an ad.
	got := Classify("2025年3月时事政治题库 师有道整理")
	assert.Equal(t, KindNoise, got.Kind())
}

func TestClassify_FullWidthPunctuationInTextIsKept(t *testing.T) {
	got := Classify("3. 这是问题？（　）")
	assert.Equal(t, QuestionStart{Ordinal: 3, Text: "这是问题？（　）"}, got)
}

func TestLooksNumbered(t *testing.T) {
	assert.True(t, looksNumbered("12、下列说法"))
	assert.True(t, looksNumbered("3 . 说法"))
	assert.True(t, looksNumbered("４．说法"))
	assert.False(t, looksNumbered("４，说法"))
	assert.False(t, looksNumbered("1,000万元"))
	assert.False(t, looksNumbered("3，5个百分点"))
	assert.False(t, looksNumbered("3.5亿人次"))
	assert.False(t, looksNumbered("12."))
	assert.False(t, looksNumbered("2025年的会议"))
	assert.False(t, looksNumbered("选项的后半部分"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "continuation", KindContinuation.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
