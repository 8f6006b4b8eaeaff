// Package extract normalizes heterogeneous sources (PDF, DOCX, Markdown,
// plain text uploads, YouTube transcripts, web articles) into a single
// plain-text string.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Extractor converts raw uploaded bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, size int64) (string, error)
}

// SupportedExtensions lists upload file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ForFilename returns the appropriate extractor for a filename.
func ForFilename(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
