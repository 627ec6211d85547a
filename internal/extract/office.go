package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	wordDocument  = "word/document.xml"
)

func extractPDF(r io.ReaderAt, size int64) (text string, err error) {
	// the pdf reader reports malformed objects by panicking
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("Failed to extract text from PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from PDF: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("Failed to extract text from PDF: %w", err)
	}
	return buf.String(), nil
}

// extractDOCX joins the paragraphs of the main document part with newlines
func extractDOCX(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from DOCX: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == wordDocument {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("Failed to extract text from DOCX: missing %s", wordDocument)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from DOCX: %w", err)
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := wordParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from DOCX: %w", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// wordParagraphs returns paragraph texts in closing order. Paragraphs nested
// in text boxes come out on their own and leave the enclosing paragraph's
// text intact.
func wordParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []*strings.Builder
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var current *strings.Builder
		if n := len(open); n > 0 {
			current = open[n-1]
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if current != nil {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if current != nil {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if current != nil {
					paragraphs = append(paragraphs, current.String())
					open = open[:len(open)-1]
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && current != nil {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// extractXLSX renders every sheet as tab-separated rows, sheets separated
// by a blank line
func extractXLSX(r io.ReaderAt, size int64) (string, error) {
	f, err := excelize.OpenReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("Failed to extract text from XLSX: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := make([]string, 0, len(f.GetSheetList()))
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("Failed to extract text from XLSX sheet %s: %w", sheet, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		if len(lines) > 0 {
			sheets = append(sheets, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(sheets, "\n\n"), nil
}
