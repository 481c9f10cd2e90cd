package write

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMismatch is returned when none of the requested edits could be
// located in the document.
var ErrMismatch = errors.New("no edits matched the document")

// SkippedReplacement records an edit that was not applied and why.
type SkippedReplacement struct {
	Replacement
	Reason string `json:"reason"`
}

// Result reports which edits landed.
type Result struct {
	Applied []Replacement        `json:"applied"`
	Skipped []SkippedReplacement `json:"skipped"`
}

// Apply rewrites word/document.xml inside the archive, applying each
// replacement at its first match while leaving every other zip entry
// byte for byte intact. Edits the tree pass cannot place are retried
// with a whole-content fallback before being reported as skipped.
func Apply(docxBytes []byte, replacements []Replacement) ([]byte, Result, error) {
	var result Result

	readerAt := bytes.NewReader(docxBytes)
	zr, err := zip.NewReader(readerAt, int64(len(docxBytes)))
	if err != nil {
		return nil, result, fmt.Errorf("open docx: %w", err)
	}

	docXML, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return nil, result, err
	}

	root, header, err := parseXMLDocument(string(docXML))
	if err != nil {
		return nil, result, fmt.Errorf("parse document.xml: %w", err)
	}
	rootStart, rootEnd, err := extractRootTags(string(docXML))
	if err != nil {
		return nil, result, fmt.Errorf("parse document.xml: %w", err)
	}

	body := findBodyNode(root)
	if body == nil {
		return nil, result, errors.New("document.xml has no body")
	}
	paragraphs := collectParagraphs(body)

	var pending []Replacement
	for _, rep := range replacements {
		if reason := checkReplacement(rep); reason != "" {
			result.Skipped = append(result.Skipped, SkippedReplacement{Replacement: rep, Reason: reason})
			continue
		}
		applied := false
		for _, p := range paragraphs {
			if applyToParagraph(p, rep.Find, rep.Replace) {
				applied = true
				break
			}
		}
		if applied {
			result.Applied = append(result.Applied, rep)
		} else {
			pending = append(pending, rep)
		}
	}

	encoded, err := encodeXMLDocument(header, root, rootStart, rootEnd)
	if err != nil {
		return nil, result, fmt.Errorf("encode document.xml: %w", err)
	}

	out, err := rebuildArchive(zr, "word/document.xml", []byte(encoded))
	if err != nil {
		return nil, result, err
	}

	if len(pending) > 0 {
		out, pending = applyWithLibrary(out, pending, &result)
		for _, rep := range pending {
			result.Skipped = append(result.Skipped, SkippedReplacement{Replacement: rep, Reason: skipNotFound})
		}
	}

	if len(replacements) > 0 && len(result.Applied) == 0 {
		return nil, result, ErrMismatch
	}
	return out, result, nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

func rebuildArchive(zr *zip.Reader, replaceName string, replaceData []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", f.Name, err)
		}
		if name == replaceName {
			if _, err := w.Write(replaceData); err != nil {
				return nil, fmt.Errorf("zip write %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip open %s: %w", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("zip copy %s: %w", f.Name, err)
		}
		rc.Close()
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}
