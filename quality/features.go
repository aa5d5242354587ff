// Package quality scores generated divorce complaints and turns well-rated
// history into guidance for future generation prompts.
package quality

import (
	"strings"
	"unicode/utf8"
)

// SectionKeywords are the canonical complaint section headers, in document order.
var SectionKeywords = []string{
	"청구취지", // claim purpose
	"청구원인", // claim grounds
	"입증방법", // evidence method
	"첨부서류", // attachments
}

// LegalTerms are the legal-term keywords tracked in feature vectors and best practices.
var LegalTerms = []string{
	"원고",   // plaintiff
	"피고",   // defendant
	"위자료",  // alimony
	"재산분할", // property division
	"양육권",  // custody
	"가집행",  // provisional execution
}

// Positions inside the vector returned by ExtractFeatures.
const (
	FeatureLength          = 0
	FeatureSections        = 1
	FeatureSectionKeywords = 2
	FeatureLegalTerms      = FeatureSectionKeywords + 4
	FeatureAvgSentence     = FeatureLegalTerms + 6
	FeatureVectorLen       = FeatureAvgSentence + 1
)

// ExtractFeatures returns the fixed-order feature vector of a complaint.
// Lengths are counted in characters, not bytes.
func ExtractFeatures(complaint string) []float64 {
	features := make([]float64, 0, FeatureVectorLen)

	features = append(features, float64(utf8.RuneCountInString(complaint)))
	features = append(features, float64(countSections(complaint)))

	for _, keyword := range SectionKeywords {
		features = append(features, float64(strings.Count(complaint, keyword)))
	}
	for _, term := range LegalTerms {
		features = append(features, float64(strings.Count(complaint, term)))
	}

	features = append(features, averageSentenceLength(complaint))

	return features
}

// countSections counts non-blank blocks separated by an empty line
func countSections(text string) int {
	count := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// splitSentences splits on periods and keeps trimmed, non-empty fragments
func splitSentences(text string) []string {
	var sentences []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func averageSentenceLength(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range sentences {
		total += utf8.RuneCountInString(s)
	}
	return float64(total) / float64(len(sentences))
}

// presentSections returns the section keywords found in text, in canonical order
func presentSections(text string) []string {
	var found []string
	for _, keyword := range SectionKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}
