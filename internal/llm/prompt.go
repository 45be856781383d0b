package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/render"
)

// ErrEmptyResponse is returned when a model answers with no text.
var ErrEmptyResponse = errors.New("llm: empty response")

const defaultPrompt = `You are a document formatter. The user sends a Markdown rendering of a
word-processor document converted from HWP. Rewrite it as clean, well
structured Markdown:
- keep every piece of text; do not summarize, translate or invent content
- turn lines that act as titles into headings
- turn enumerated lines into lists
- keep tables as GFM tables
- keep the YAML front matter unchanged
Answer with the Markdown only.`

var languageNames = map[string]string{
	"ko": "Korean",
	"en": "English",
	"ja": "Japanese",
	"zh": "Chinese",
}

// SystemPrompt returns the instruction sent ahead of the document.
func SystemPrompt(opts FormatOptions) string {
	prompt := defaultPrompt
	if opts.Prompt != "" {
		prompt = opts.Prompt
	}
	if name, ok := languageNames[opts.Language]; ok {
		prompt += fmt.Sprintf("\nThe document is written in %s; write any headings you add in %s.", name, name)
	}
	return prompt
}

// UserPrompt returns the document as the model sees it.
func UserPrompt(doc *ir.Document) string {
	return render.Markdown(doc)
}

// completion is the raw answer of one model call.
type completion struct {
	text  string
	model string
	usage TokenUsage
}

// completeFunc sends one system/user exchange to a model.
type completeFunc func(ctx context.Context, system, user string, opts FormatOptions) (*completion, error)

// format runs the shared pipeline: render, call, clean.
func format(ctx context.Context, name string, doc *ir.Document, opts FormatOptions, call completeFunc) (*FormatResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%s: nil document", name)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultFormatOptions().MaxTokens
	}

	c, err := call(ctx, SystemPrompt(opts), UserPrompt(doc), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	md := cleanResponse(c.text)
	if md == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyResponse)
	}
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}

	return &FormatResult{
		Markdown: md,
		Usage:    c.usage,
		Model:    c.model,
	}, nil
}

// cleanResponse strips a surrounding ``` fence models like to add.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return ""
	}
	body := s[nl+1:]
	body = strings.TrimSuffix(strings.TrimRight(body, " \n"), "```")
	return strings.TrimSpace(body)
}
