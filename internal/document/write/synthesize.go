package write

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"resume-tailor/internal/document"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Synthesize builds a fresh DOCX archive from the paragraph
// representation. Used to normalize PDF uploads into an editable
// format before edits are applied.
func Synthesize(doc *document.Document) ([]byte, error) {
	docXML, err := buildDocumentXML(doc)
	if err != nil {
		return nil, fmt.Errorf("build document.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", docXML},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", entry.name, err)
		}
		if _, err := w.Write([]byte(entry.data)); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(doc *document.Document) (string, error) {
	var body bytes.Buffer
	for _, p := range doc.Paragraphs {
		body.WriteString("<w:p>")
		if p.Style != "" {
			body.WriteString(`<w:pPr><w:pStyle w:val="` + xmlEscapeAttr(p.Style) + `"/></w:pPr>`)
		}
		for _, r := range p.Runs {
			body.WriteString("<w:r>")
			if props := runProperties(r); props != "" {
				body.WriteString("<w:rPr>" + props + "</w:rPr>")
			}
			body.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(&body, []byte(r.Text)); err != nil {
				return "", err
			}
			body.WriteString("</w:t></w:r>")
		}
		body.WriteString("</w:p>")
	}

	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="` + wmlNamespace + `" xmlns:r="` + relNamespace + `"><w:body>` +
		body.String() +
		`<w:sectPr/></w:body></w:document>`, nil
}

func runProperties(r document.Run) string {
	var props bytes.Buffer
	if r.Font != "" {
		props.WriteString(`<w:rFonts w:ascii="` + xmlEscapeAttr(r.Font) + `"/>`)
	}
	if r.Bold {
		props.WriteString("<w:b/>")
	}
	if r.Italic {
		props.WriteString("<w:i/>")
	}
	if r.Underline {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	if r.SizeHalfPoints > 0 {
		props.WriteString(`<w:sz w:val="` + strconv.Itoa(r.SizeHalfPoints) + `"/>`)
	}
	return props.String()
}

func xmlEscapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
