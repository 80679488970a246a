// Package portfolio derives the descriptive text an architect is ranked
// by. The text mixes structured profile fields with the plain text of any
// uploaded credential documents, mirroring how recall improves when titles
// and bodies are embedded together.
package portfolio

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/archimatch/archimatch/internal/model"
)

// Synthesize builds the PortfolioText for an architect. Empty fields are
// skipped so a sparse profile still produces usable text, and credential
// document text is appended after the structured part.
func Synthesize(profile *model.ArchitectProfile, credentialTexts []string) string {
	var parts []string
	add := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		parts = append(parts, label+": "+value)
	}
	add("Architect", profile.DisplayName)
	add("Style", profile.Style)
	add("Specialization", profile.Specialization)
	add("Location", profile.Location)
	add("Budget", profile.BudgetRange)
	add("About", profile.Bio)
	for _, text := range credentialTexts {
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// ExtractMarkdownText strips markdown structure from a credential document
// and returns its plain text. Formatting characters would only add noise
// to the embedding.
func ExtractMarkdownText(source []byte) string {
	root := goldmark.New().Parser().Parse(gmtext.NewReader(source))
	var buf bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, isBlock := n.(*ast.Paragraph); isBlock {
				buf.WriteByte('\n')
			}
			if _, isHeading := n.(*ast.Heading); isHeading {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
