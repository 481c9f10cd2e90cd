package write

import (
	"bytes"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// applyWithLibrary retries pending edits against the raw document
// content. It only catches finds that happen to live in a single run,
// which the tree pass can miss when the paragraph text was decoded
// with entity differences. Returns the (possibly rewritten) bytes and
// the edits that still did not land.
func applyWithLibrary(data []byte, pending []Replacement, result *Result) ([]byte, []Replacement) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return data, pending
	}
	defer doc.Close()

	editable := doc.Editable()
	var remaining []Replacement
	changed := false
	for _, rep := range pending {
		if !strings.Contains(editable.GetContent(), rep.Find) {
			remaining = append(remaining, rep)
			continue
		}
		if err := editable.Replace(rep.Find, rep.Replace, 1); err != nil {
			remaining = append(remaining, rep)
			continue
		}
		result.Applied = append(result.Applied, rep)
		changed = true
	}

	if !changed {
		return data, remaining
	}

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return data, remaining
	}
	return buf.Bytes(), remaining
}
