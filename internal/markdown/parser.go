package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Document is a rendered note body.
type Document struct {
	HTML string
	Tags []string
	Meta map[string]any
}

type Parser struct {
	md goldmark.Markdown
}

// NewParser renders GFM with frontmatter. Raw HTML in note bodies is not
// passed through.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Render(source string) (*Document, error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert([]byte(source), &buf, parser.WithContext(context))
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	meta := make(map[string]any)
	data := frontmatter.Get(context)
	if data != nil {
		// Malformed frontmatter renders as if there were none
		if err := data.Decode(&meta); err != nil {
			meta = make(map[string]any)
		}
	}

	return &Document{
		HTML: buf.String(),
		Tags: tags(meta["tags"]),
		Meta: meta,
	}, nil
}

// tags accepts `tags: [a, b]` or `tags: a, b` and returns them lowercased,
// sorted and deduplicated.
func tags(raw any) []string {
	var values []string
	switch v := raw.(type) {
	case string:
		values = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			out = append(out, value)
		}
	}

	slices.Sort(out)
	return slices.Compact(out)
}
