package parse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"resume-tailor/internal/document"
)

// parseDOCX walks word/document.xml and collects paragraphs, runs, and
// character properties.
func parseDOCX(data []byte) (*document.Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return nil, err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	paragraphs, err := decodeParagraphs(raw)
	if err != nil {
		return nil, err
	}

	return &document.Document{
		SourceFormat: document.FormatDOCX,
		Paragraphs:   paragraphs,
	}, nil
}

type runState struct {
	bold      bool
	italic    bool
	underline bool
	font      string
	sizeHalf  int
}

func decodeParagraphs(raw []byte) ([]document.Paragraph, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))

	var out []document.Paragraph
	var current *document.Paragraph
	var run runState
	var inRun bool
	var inRunProps bool
	var inText bool
	var text strings.Builder

	flushRun := func() {
		if current == nil {
			return
		}
		if text.Len() == 0 {
			return
		}
		current.Runs = append(current.Runs, document.Run{
			Text:           text.String(),
			Bold:           run.bold,
			Italic:         run.italic,
			Underline:      run.underline,
			Font:           run.font,
			SizeHalfPoints: run.sizeHalf,
		})
		text.Reset()
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				out = append(out, document.Paragraph{Index: len(out)})
				current = &out[len(out)-1]
			case "pStyle":
				if current != nil {
					current.Style = attrValue(t.Attr, "val")
				}
			case "r":
				inRun = true
				run = runState{}
			case "rPr":
				inRunProps = inRun
			case "b":
				if inRunProps {
					run.bold = boolAttr(t.Attr)
				}
			case "i":
				if inRunProps {
					run.italic = boolAttr(t.Attr)
				}
			case "u":
				if inRunProps {
					run.underline = attrValue(t.Attr, "val") != "none"
				}
			case "rFonts":
				if inRunProps {
					run.font = attrValue(t.Attr, "ascii")
				}
			case "sz":
				if inRunProps {
					if v, err := strconv.Atoi(attrValue(t.Attr, "val")); err == nil {
						run.sizeHalf = v
					}
				}
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					text.WriteByte('\t')
				}
			case "br":
				if inRun {
					flushRun()
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunProps = false
			case "r":
				flushRun()
				inRun = false
			case "p":
				flushRun()
				current = nil
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	return out, nil
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// boolAttr interprets an on/off property element: absent val means on.
func boolAttr(attrs []xml.Attr) bool {
	val := attrValue(attrs, "val")
	switch strings.ToLower(val) {
	case "", "1", "true", "on":
		return true
	default:
		return false
	}
}
