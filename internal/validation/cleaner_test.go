package validation

import (
	"testing"

	"szexam/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	c := validCandidate()
	c.Content = strPtr("  这是一道\n  测试题目，\t内容足够长 ")
	c.Options = []domain.Option{
		{Key: "C", Content: " 选项\nC "},
		{Key: "A", Content: "选项A"},
		{Key: "D", Content: "选项   D"},
		{Key: "B", Content: "选项B"},
	}
	c.Answer = strPtr(" ab ")
	c.Month = domain.NewLooseIntString("7")
	c.Analysis = strPtr(" 解析\n\n第二段 ")
	c.Region = strPtr(" 广东 ")
	require.NoError(t, Validate(c))

	got := Clean(c)

	assert.Equal(t, "这是一道 测试题目， 内容足够长", got.Content)
	assert.Equal(t, "AB", got.Answer)
	assert.Equal(t, 7, got.Month)
	assert.Equal(t, "解析 第二段", got.Analysis)
	assert.Equal(t, "广东", got.Region)
	assert.Equal(t, [domain.NumOptions]domain.Option{
		{Key: "A", Content: "选项A"},
		{Key: "B", Content: "选项B"},
		{Key: "C", Content: "选项 C"},
		{Key: "D", Content: "选项 D"},
	}, got.Options)
}

func TestCleanTopic_Idempotent(t *testing.T) {
	inputs := []*domain.Candidate{validCandidate(), validCandidate()}
	inputs[1].Content = strPtr("　多余　空白\r\n的题干  ")
	inputs[1].Answer = strPtr("cd")
	inputs[1].Analysis = strPtr("a\n b")

	for _, c := range inputs {
		require.NoError(t, Validate(c))
		once := Clean(c)
		snapshot := *once
		twice := CleanTopic(once)
		assert.Equal(t, snapshot, *twice)
	}
}

func TestClean_PanicsOnInvalidMonth(t *testing.T) {
	c := validCandidate()
	c.Month = domain.NewLooseIntString("bad")
	assert.Panics(t, func() { Clean(c) })
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace(" a \n\n b\t\tc "))
	assert.Equal(t, "", CollapseSpace(" \n "))
}
