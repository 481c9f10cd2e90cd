package parse

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-tailor/internal/document"
)

// yTolerance groups glyphs whose baselines are within this many points
// into the same line.
const yTolerance = 2.0

// parsePDF reconstructs paragraphs from positioned text fragments.
// Bold and italic are inferred from the font name since PDFs carry no
// run-level character properties.
func parsePDF(data []byte) (*document.Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty pdf data")
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, err
	}

	doc := &document.Document{SourceFormat: document.FormatPDF}
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, line := range groupLines(content.Text) {
			paragraph := document.Paragraph{Index: len(doc.Paragraphs), Runs: lineRuns(line)}
			doc.Paragraphs = append(doc.Paragraphs, paragraph)
		}
	}

	if doc.IsEmpty() {
		return nil, errors.New("no text content found")
	}
	return doc, nil
}

// groupLines buckets text fragments by baseline, top of page first.
func groupLines(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}

	sorted := append([]pdf.Text(nil), texts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > yTolerance || diff < -yTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdf.Text
	var current []pdf.Text
	lastY := sorted[0].Y
	for _, t := range sorted {
		if diff := lastY - t.Y; diff > yTolerance || diff < -yTolerance {
			if len(current) > 0 {
				lines = append(lines, current)
			}
			current = nil
		}
		current = append(current, t)
		lastY = t.Y
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// lineRuns merges adjacent fragments sharing a font into runs.
func lineRuns(line []pdf.Text) []document.Run {
	var runs []document.Run
	for _, t := range line {
		fontName := strings.ToLower(t.Font)
		run := document.Run{
			Text:           t.S,
			Bold:           strings.Contains(fontName, "bold"),
			Italic:         strings.Contains(fontName, "italic") || strings.Contains(fontName, "oblique"),
			Font:           t.Font,
			SizeHalfPoints: int(t.FontSize * 2),
		}
		if n := len(runs); n > 0 && sameStyle(runs[n-1], run) {
			runs[n-1].Text += run.Text
			continue
		}
		runs = append(runs, run)
	}
	return runs
}

func sameStyle(a, b document.Run) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic && a.Font == b.Font && a.SizeHalfPoints == b.SizeHalfPoints
}
