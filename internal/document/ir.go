package document

import "strings"

// Format identifies the source file format of a parsed document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Run is a span of text sharing one set of character properties.
type Run struct {
	Text           string `json:"text"`
	Bold           bool   `json:"bold,omitempty"`
	Italic         bool   `json:"italic,omitempty"`
	Underline      bool   `json:"underline,omitempty"`
	Font           string `json:"font,omitempty"`
	SizeHalfPoints int    `json:"sizeHalfPoints,omitempty"`
}

// Paragraph is a block of runs with an optional named style.
type Paragraph struct {
	Index int    `json:"index"`
	Style string `json:"style,omitempty"`
	Runs  []Run  `json:"runs"`
}

// Text concatenates the paragraph's run texts.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Document is the format-neutral representation produced by parsing.
type Document struct {
	SourceFormat Format      `json:"sourceFormat"`
	Paragraphs   []Paragraph `json:"paragraphs"`
}

// PlainText joins all paragraphs with newlines.
func (d *Document) PlainText() string {
	lines := make([]string, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the document carries no visible text.
func (d *Document) IsEmpty() bool {
	for _, p := range d.Paragraphs {
		if strings.TrimSpace(p.Text()) != "" {
			return false
		}
	}
	return true
}
