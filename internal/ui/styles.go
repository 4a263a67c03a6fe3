package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// GetMarkdownRenderer returns a glamour renderer using the theme-aware style
// config, word-wrapped at width.
func GetMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(IsDarkBackground())),
		glamour.WithWordWrap(width),
	)
}

type colorScheme struct {
	text, muted, heading, emph, strong, link, code string
	keyword, str, number, comment, err             string
}

func resolveColorScheme(dark bool) colorScheme {
	if dark {
		return colorScheme{
			text: "#F9FAFB", muted: "#9CA3AF",
			heading: "#22D3EE", emph: "#FDE047",
			strong: "#F9FAFB", link: "#60A5FA",
			code: "#D1D5DB", err: "#F87171",
			keyword: "#C084FC", str: "#34D399",
			number: "#FBBF24", comment: "#9CA3AF",
		}
	}
	return colorScheme{
		text: "#1F2937", muted: "#6B7280",
		heading: "#0891B2", emph: "#D97706",
		strong: "#1F2937", link: "#2563EB",
		code: "#374151", err: "#DC2626",
		keyword: "#7C3AED", str: "#059669",
		number: "#D97706", comment: "#6B7280",
	}
}

func heading(cs *colorScheme, prefix string) ansi.StyleBlock {
	return ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{
			Prefix: prefix,
			Color:  &cs.heading,
			Bold:   boolPtr(true),
		},
	}
}

func markdownStyleConfig(dark bool) ansi.StyleConfig {
	cs := resolveColorScheme(dark)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &cs.text},
			Margin:         uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  &cs.muted,
				Italic: boolPtr(true),
				Prefix: "┃ ",
			},
			Indent: uintPtr(1),
		},
		List: ansi.StyleList{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: &cs.text},
			},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       &cs.heading,
				Bold:        boolPtr(true),
			},
		},
		H1: heading(&cs, "# "),
		H2: heading(&cs, "## "),
		H3: heading(&cs, "### "),
		H4: heading(&cs, "#### "),
		H5: heading(&cs, "##### "),
		H6: heading(&cs, "###### "),
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: boolPtr(true),
			Color:      &cs.muted,
		},
		Emph:   ansi.StylePrimitive{Color: &cs.emph, Italic: boolPtr(true)},
		Strong: ansi.StylePrimitive{Color: &cs.strong, Bold: boolPtr(true)},
		HorizontalRule: ansi.StylePrimitive{
			Color:  &cs.muted,
			Format: "\n─────────────────────────────────────────\n",
		},
		Item:        ansi.StylePrimitive{BlockPrefix: "• ", Color: &cs.text},
		Enumeration: ansi.StylePrimitive{BlockPrefix: ". ", Color: &cs.text},
		Task: ansi.StyleTask{
			Ticked:   "[✓] ",
			Unticked: "[ ] ",
		},
		Link:     ansi.StylePrimitive{Color: &cs.link, Underline: boolPtr(true)},
		LinkText: ansi.StylePrimitive{Color: &cs.link, Bold: boolPtr(true)},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &cs.code},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: &cs.code},
				Margin:         uintPtr(0),
			},
			Chroma: &ansi.Chroma{
				Text:          ansi.StylePrimitive{Color: &cs.text},
				Error:         ansi.StylePrimitive{Color: &cs.err},
				Comment:       ansi.StylePrimitive{Color: &cs.comment},
				Keyword:       ansi.StylePrimitive{Color: &cs.keyword},
				KeywordType:   ansi.StylePrimitive{Color: &cs.keyword},
				Operator:      ansi.StylePrimitive{Color: &cs.text},
				Punctuation:   ansi.StylePrimitive{Color: &cs.text},
				Name:          ansi.StylePrimitive{Color: &cs.text},
				NameFunction:  ansi.StylePrimitive{Color: &cs.text},
				LiteralNumber: ansi.StylePrimitive{Color: &cs.number},
				LiteralString: ansi.StylePrimitive{Color: &cs.str},
			},
		},
		Table: ansi.StyleTable{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			},
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
		Text:      ansi.StylePrimitive{Color: &cs.text},
		Paragraph: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: &cs.text}},
	}
}

// toMarkdown renders content as terminal markdown, returning content
// unchanged if rendering fails.
func toMarkdown(content string, width int) string {
	r, err := GetMarkdownRenderer(width)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
