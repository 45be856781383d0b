// Package render turns an ir.Document into Markdown, plain text or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// frontMatter is the YAML block written ahead of the Markdown body.
type frontMatter struct {
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Subject  string `yaml:"subject,omitempty"`
	Keywords string `yaml:"keywords,omitempty"`
	Created  string `yaml:"created,omitempty"`
}

// Markdown renders doc as Markdown with GFM tables. Paragraph styles only
// pick heading levels and emphasis.
func Markdown(doc *ir.Document) string {
	var sb strings.Builder

	fm := frontMatter{
		Title:    doc.Metadata.Title,
		Author:   doc.Metadata.Author,
		Subject:  doc.Metadata.Subject,
		Keywords: doc.Metadata.Keywords,
		Created:  doc.Metadata.Created,
	}
	if fm != (frontMatter{}) {
		if data, err := yaml.Marshal(fm); err == nil {
			sb.WriteString("---\n")
			sb.Write(data)
			sb.WriteString("---\n\n")
		}
	}

	for _, block := range doc.Blocks() {
		switch block.Type {
		case ir.BlockTypeParagraph:
			if block.Paragraph != nil {
				writeMarkdownParagraph(&sb, block.Paragraph)
			}
		case ir.BlockTypeTable:
			if block.Table != nil {
				writeMarkdownTable(&sb, block.Table)
			}
		}
	}

	return sb.String()
}

// HeadingLevel guesses a Markdown heading level from a paragraph style:
// large text is a heading, bold mid-size text a sub-heading. Zero means
// body text.
func HeadingLevel(s *ir.Style) int {
	if s == nil {
		return 0
	}
	switch {
	case s.FontSize >= 20:
		return 1
	case s.FontSize >= 16:
		return 2
	case s.FontSize >= 13 && s.Bold:
		return 3
	}
	return 0
}

func writeMarkdownParagraph(sb *strings.Builder, p *ir.Paragraph) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return
	}

	if level := HeadingLevel(p.Style); level > 0 {
		// 제목은 한 줄로
		heading := strings.Join(strings.Fields(text), " ")
		sb.WriteString(fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), heading))
		return
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = emphasize(strings.TrimSpace(line), p.Style)
	}
	sb.WriteString(strings.Join(lines, "  \n"))
	sb.WriteString("\n\n")
}

func emphasize(text string, s *ir.Style) string {
	if text == "" || s == nil {
		return text
	}
	switch {
	case s.Bold && s.Italic:
		return "***" + text + "***"
	case s.Bold:
		return "**" + text + "**"
	case s.Italic:
		return "*" + text + "*"
	}
	return text
}

func writeMarkdownTable(sb *strings.Builder, t *ir.TableBlock) {
	if len(t.Cells) == 0 {
		return
	}
	width := t.Width()

	for i, row := range t.Cells {
		sb.WriteString("|")
		for c := 0; c < width; c++ {
			text := ""
			if c < len(row) {
				text = markdownCell(row[c].Text)
			}
			sb.WriteString(fmt.Sprintf(" %s |", text))
		}
		sb.WriteString("\n")

		// 첫 행 뒤에 구분선
		if i == 0 {
			sb.WriteString("|")
			for c := 0; c < width; c++ {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// JSON encodes doc, indented when pretty is set.
func JSON(doc *ir.Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
