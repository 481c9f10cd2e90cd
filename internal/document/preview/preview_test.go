package preview

import (
	"encoding/base64"
	"strings"
	"testing"

	"resume-tailor/internal/document"
)

func TestRenderPNGProducesDataURI(t *testing.T) {
	doc := &document.Document{
		Paragraphs: []document.Paragraph{
			{Runs: []document.Run{{Text: "Jane Doe", Bold: true}}},
			{Runs: []document.Run{{Text: "Senior engineer with ten years of experience building distributed systems and leading small teams across several product areas."}}},
		},
	}

	uri, err := RenderPNG(doc)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("unexpected prefix in %q", uri[:40])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// PNG magic header
	if len(raw) < 8 || raw[0] != 0x89 || string(raw[1:4]) != "PNG" {
		t.Fatalf("payload is not a png")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 10)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 10 {
			t.Fatalf("line %q exceeds limit", l)
		}
	}
}
