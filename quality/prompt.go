package quality

import (
	"fmt"
	"strings"

	"herelaw-backend/llm"
)

const (
	promptPhraseCount = 5

	// SystemPrompt frames every generation request
	SystemPrompt = "당신은 전문 법률 문서 작성 시스템입니다. 과거의 성공적인 소장 작성 경험을 바탕으로 최적화된 이혼 소장을 작성합니다."

	// examplePrefix introduces the well-rated example complaint
	examplePrefix = "다음은 높은 평가를 받은 소장의 예시입니다:\n"

	guidelineHeader = "다음 기준을 충족하는 고품질 소장을 작성해주세요:"
	requestLine     = "다음 상담 내용과 참고 문서를 바탕으로 이혼 소장을 작성해주세요."
)

// DefaultGuidelines is used when no best-practice bundle is available
var DefaultGuidelines = []string{
	"모든 필수 섹션을 포함할 것",
	"구체적이고 명확한 법률 용어 사용",
	"논리적인 구조와 흐름",
	"적절한 길이와 상세도",
}

// ComposePrompt builds the user prompt for the completion service from the
// best-practice bundle (nil when unavailable), the consultation text and
// any reference excerpts. It is a pure function.
func ComposePrompt(bundle *BestPracticeBundle, consultation string, excerpts []string) string {
	var builder strings.Builder

	builder.WriteString(qualityGuidelines(bundle))
	builder.WriteString("\n\n")
	builder.WriteString(requestLine)
	builder.WriteString("\n\n")

	builder.WriteString("[상담 내용]\n")
	builder.WriteString(consultation)
	builder.WriteString("\n\n")

	if len(excerpts) > 0 {
		builder.WriteString("[참고 문서]\n")
		for _, excerpt := range excerpts {
			excerpt = strings.TrimSpace(excerpt)
			if excerpt == "" {
				continue
			}
			builder.WriteString(excerpt)
			builder.WriteString("\n\n")
		}
	}

	return builder.String()
}

// ComposeMessages orders the conversation for the completion service: the
// system prompt, the bundle's example complaint when there is one, then prompt.
func ComposeMessages(bundle *BestPracticeBundle, prompt string) []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: SystemPrompt}}
	if bundle != nil && strings.TrimSpace(bundle.ExampleComplaint) != "" {
		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: examplePrefix + bundle.ExampleComplaint,
		})
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
}

func qualityGuidelines(bundle *BestPracticeBundle) string {
	var builder strings.Builder
	builder.WriteString(guidelineHeader)
	builder.WriteString("\n")

	if bundle == nil {
		for i, line := range DefaultGuidelines {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
		}
		return builder.String()
	}

	phrases := bundle.CommonPhrases
	if len(phrases) > promptPhraseCount {
		phrases = phrases[:promptPhraseCount]
	}

	builder.WriteString(fmt.Sprintf("1. 적정 문서 길이: %d 자 내외\n", int(bundle.AverageLength)))
	builder.WriteString("2. 다음 문구들을 적절히 활용하세요:\n")
	builder.WriteString("   " + strings.Join(phrases, ", ") + "\n")
	builder.WriteString("3. 성공적인 소장의 섹션 구조를 따르세요:\n")
	builder.WriteString("   " + sectionOrderText(bundle.SectionOrder) + "\n")
	builder.WriteString("4. 다음 특징들을 반영하세요:\n")
	builder.WriteString("   " + termSummary(bundle.LegalTermAverages) + "\n")

	return builder.String()
}

func sectionOrderText(order []string) string {
	if len(order) == 0 {
		return strings.Join(SectionKeywords, " → ")
	}
	return strings.Join(order, " → ")
}

func termSummary(averages []TermAverage) string {
	parts := make([]string, 0, len(averages))
	for _, ta := range averages {
		parts = append(parts, fmt.Sprintf("%s 평균 %.1f회", ta.Term, ta.Average))
	}
	return strings.Join(parts, ", ")
}
