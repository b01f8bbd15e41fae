package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	fontColor = "000000"
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^(\s*)[\-\*]\s+(.+)$`)
)

type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineRule
	lineHeading
	lineBullet
)

// mdLine is one Markdown line of the notes, reduced to what the docx
// renderer needs.
type mdLine struct {
	kind  lineKind
	level int // heading level, or bullet depth starting at 0
	text  string
}

func classify(line string) mdLine {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return mdLine{kind: lineBlank}
	case trimmed == "---":
		return mdLine{kind: lineRule}
	}
	if m := reHeading.FindStringSubmatch(trimmed); m != nil {
		return mdLine{kind: lineHeading, level: len(m[1]), text: m[2]}
	}
	if m := reBullet.FindStringSubmatch(line); m != nil {
		return mdLine{kind: lineBullet, level: len(m[1]) / 2, text: m[2]}
	}
	return mdLine{kind: lineText, text: trimmed}
}

// MarkdownToDocx writes the notes Markdown as a styled docx file. Action
// items nested under an owner are indented one level.
func MarkdownToDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, headingSize(1))

	for _, raw := range strings.Split(markdown, "\n") {
		l := classify(raw)
		switch l.kind {
		case lineBlank:
		case lineRule:
			doc.AddParagraph("")
		case lineHeading:
			// The document title already stands in for "# Meeting Notes".
			if l.level == 1 {
				continue
			}
			addStyledRun(doc.AddParagraph(""), l.text, true, headingSize(l.level))
		case lineBullet:
			marker := "• "
			if l.level > 0 {
				marker = strings.Repeat("    ", l.level) + "◦ "
			}
			addRichText(doc.AddParagraph(""), marker+l.text)
		default:
			addRichText(doc.AddParagraph(""), l.text)
		}
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color(fontColor)
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans bold and drops the rest of the inline markup.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(fontColor)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(fontColor).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
