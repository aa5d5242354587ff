package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herelaw-backend/llm"
)

func TestComposePrompt_DefaultGuidelines(t *testing.T) {
	prompt := ComposePrompt(nil, "상담내용", nil)

	assert.Contains(t, prompt, "상담내용")
	for _, line := range DefaultGuidelines {
		assert.Contains(t, prompt, line)
	}
	assert.NotContains(t, prompt, "다음 문구들을")
	assert.NotContains(t, prompt, "[참고 문서]")
}

func TestComposePrompt_WithBundle(t *testing.T) {
	bundle := &BestPracticeBundle{
		SampleSize:    12,
		AverageLength: 2150.7,
		CommonPhrases: []string{"p1 a b", "p2 a b", "p3 a b", "p4 a b", "p5 a b", "p6 a b"},
		SectionOrder:  []string{"청구취지", "청구원인"},
		LegalTermAverages: []TermAverage{
			{Term: "원고", Average: 12.5},
			{Term: "피고", Average: 9},
		},
	}

	prompt := ComposePrompt(bundle, "남편과 이혼하고 싶습니다", []string{"참고 청구취지 예시", "  "})

	assert.Contains(t, prompt, "2150 자 내외")
	assert.Contains(t, prompt, "p1 a b, p2 a b, p3 a b, p4 a b, p5 a b")
	assert.NotContains(t, prompt, "p6 a b")
	assert.Contains(t, prompt, "청구취지 → 청구원인")
	assert.Contains(t, prompt, "원고 평균 12.5회")
	assert.Contains(t, prompt, "남편과 이혼하고 싶습니다")
	assert.Contains(t, prompt, "참고 청구취지 예시")
	for _, line := range DefaultGuidelines {
		assert.NotContains(t, prompt, line)
	}
}

func TestComposePrompt_ConsultationFollowsGuidelines(t *testing.T) {
	prompt := ComposePrompt(nil, "CONSULT", []string{"EXCERPT"})

	guidelines := strings.Index(prompt, guidelineHeader)
	consultation := strings.Index(prompt, "CONSULT")
	excerpt := strings.Index(prompt, "EXCERPT")

	assert.Equal(t, 0, guidelines)
	assert.Less(t, guidelines, consultation)
	assert.Less(t, consultation, excerpt)
}

func TestComposeMessages(t *testing.T) {
	t.Run("without bundle", func(t *testing.T) {
		messages := ComposeMessages(nil, "요청")
		require.Len(t, messages, 2)
		assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt}, messages[0])
		assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "요청"}, messages[1])
	})

	t.Run("example complaint is introduced", func(t *testing.T) {
		messages := ComposeMessages(&BestPracticeBundle{ExampleComplaint: "모범 소장"}, "요청")
		require.Len(t, messages, 3)
		assert.Equal(t, llm.RoleAssistant, messages[1].Role)
		assert.Equal(t, "다음은 높은 평가를 받은 소장의 예시입니다:\n모범 소장", messages[1].Content)
		assert.Equal(t, llm.RoleUser, messages[2].Role)
	})

	t.Run("blank example is skipped", func(t *testing.T) {
		messages := ComposeMessages(&BestPracticeBundle{ExampleComplaint: "  "}, "요청")
		assert.Len(t, messages, 2)
	})
}
