// Package document renders complaints as Word (.docx) files.
package document

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"herelaw-backend/quality"
)

// Extension is the file extension of rendered documents
const Extension = ".docx"

const (
	Title = "소    장"

	titleSize   = "32" // half-points
	headingSize = "24"
	bodySize    = "24"
	dateLayout  = "2006. 1. 2."
)

// RenderComplaint writes the complaint as a .docx document: a centered title,
// one paragraph per blank-line separated block with section headers in bold,
// and the date right-aligned at the end.
func RenderComplaint(w io.Writer, content string, at time.Time) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().Justification("center").
		AddText(Title).Bold().Size(titleSize)

	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		addBlock(doc, block)
	}

	doc.AddParagraph().Justification("end").
		AddText(at.Format(dateLayout)).Size(bodySize)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}
	return nil
}

// addBlock writes a leading section header line in bold, the rest as body text
func addBlock(doc *docx.Docx, block string) {
	first, rest, _ := strings.Cut(block, "\n")
	if !isSectionHeader(first) {
		doc.AddParagraph().AddText(block).Size(bodySize)
		return
	}

	doc.AddParagraph().AddText(strings.TrimSpace(first)).Bold().Size(headingSize)
	if rest = strings.TrimSpace(rest); rest != "" {
		doc.AddParagraph().AddText(rest).Size(bodySize)
	}
}

func isSectionHeader(line string) bool {
	line = strings.TrimSpace(line)
	for _, keyword := range quality.SectionKeywords {
		if strings.Contains(line, keyword) && len([]rune(line)) <= len([]rune(keyword))+8 {
			return true
		}
	}
	return false
}
