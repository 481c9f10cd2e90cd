package parse

import (
	"context"
	"errors"
	"fmt"

	"resume-tailor/internal/document"
	"resume-tailor/internal/shared/util"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .pdf and .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParseFailure is returned when a supported file cannot be decoded.
	ErrParseFailure = errors.New("could not parse document")
)

// Parse decodes an uploaded resume into its paragraph representation.
func Parse(ctx context.Context, data []byte, fileName string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch util.NormalizeExt(fileName) {
	case ".pdf":
		doc, err := parsePDF(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return doc, nil
	case ".docx":
		doc, err := parseDOCX(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, util.NormalizeExt(fileName))
	}
}
