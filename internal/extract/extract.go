// Package extract turns uploaded documents into plain text for the
// reference document-processing service.
package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported document kind
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatXLSX    Format = "xlsx"
	FormatText    Format = "text"
	FormatZip     Format = "zip"
	FormatUnknown Format = "unknown"
)

// DefaultMaxEntryBytes bounds the decompressed size of a single archive entry
const DefaultMaxEntryBytes int64 = 64 << 20

// UnsupportedError reports a document whose extension has no extractor.
// Entry is set when the document came out of a zip archive.
type UnsupportedError struct {
	Entry string
}

func (e *UnsupportedError) Error() string {
	if e.Entry != "" {
		return "Unsupported file format: " + e.Entry
	}
	return "Unsupported file format"
}

// Detect maps a file name to its format by extension
func Detect(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".xlsx":
		return FormatXLSX
	case ".txt", ".md", ".csv":
		return FormatText
	case ".zip":
		return FormatZip
	default:
		return FormatUnknown
	}
}

// Extractor dispatches documents to the extractor of their format
type Extractor struct {
	MaxEntryBytes int64
}

// New creates an extractor with default limits
func New() *Extractor {
	return &Extractor{MaxEntryBytes: DefaultMaxEntryBytes}
}

// Extract returns the text of the document called name. The returned
// format is the one that decided the outcome: for archives that is the
// format of the first entry.
func (e *Extractor) Extract(name string, r io.ReaderAt, size int64) (Format, string, error) {
	format := Detect(name)
	switch format {
	case FormatZip:
		return e.extractArchive(r, size)
	case FormatUnknown:
		return format, "", &UnsupportedError{}
	default:
		text, err := extractDocument(format, r, size)
		return format, text, err
	}
}

// extractArchive extracts the first file of a zip archive. Directory
// entries are skipped and nested archives are not unpacked.
func (e *Extractor) extractArchive(r io.ReaderAt, size int64) (Format, string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return FormatZip, "", fmt.Errorf("Failed to open ZIP archive: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		format := Detect(f.Name)
		if format == FormatUnknown || format == FormatZip {
			return format, "", &UnsupportedError{Entry: f.Name}
		}

		data, err := e.readEntry(f)
		if err != nil {
			return format, "", err
		}
		text, err := extractDocument(format, bytes.NewReader(data), int64(len(data)))
		return format, text, err
	}

	return FormatZip, "", fmt.Errorf("ZIP archive is empty")
}

func (e *Extractor) readEntry(f *zip.File) ([]byte, error) {
	limit := e.MaxEntryBytes
	if limit <= 0 {
		limit = DefaultMaxEntryBytes
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s from archive: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s from archive: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("Archive entry %s exceeds %d bytes", f.Name, limit)
	}
	return data, nil
}

func extractDocument(format Format, r io.ReaderAt, size int64) (string, error) {
	switch format {
	case FormatPDF:
		return extractPDF(r, size)
	case FormatDOCX:
		return extractDOCX(r, size)
	case FormatXLSX:
		return extractXLSX(r, size)
	case FormatText:
		return extractText(r, size)
	default:
		return "", &UnsupportedError{}
	}
}

func extractText(r io.ReaderAt, size int64) (string, error) {
	raw, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("Failed to read text document: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("Text document is not valid UTF-8")
	}
	return strings.TrimSpace(string(raw)), nil
}
