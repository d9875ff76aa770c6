// Package source turns uploaded files into the tables and text lines the
// import pipeline consumes. It does no normalization of its own.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/extract"
	"github.com/MrJamesThe3rd/tally/internal/importer"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooLarge          = errors.New("file too large")
	ErrNoTable           = errors.New("no table found")
)

// FormatOf picks the format from the file extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Loader reads files of any supported format.
type Loader struct {
	PDF *PDFText

	// MaxBytes caps how much of an upload is read. Zero means no cap.
	MaxBytes int64
}

func NewLoader(pdf *PDFText, maxBytes int64) *Loader {
	return &Loader{PDF: pdf, MaxBytes: maxBytes}
}

// Table reads a file meant for a table import.
func (l *Loader) Table(format Format, r io.Reader) (extract.Table, error) {
	data, err := l.read(r)
	if err != nil {
		return extract.Table{}, err
	}

	switch format {
	case FormatCSV, FormatText:
		t, _, err := ReadDelimited(bytes.NewReader(data))
		return t, err
	case FormatXLSX:
		tables, err := ReadWorkbook(bytes.NewReader(data))
		if err != nil {
			return extract.Table{}, err
		}

		if len(tables) == 0 {
			return extract.Table{}, ErrNoTable
		}

		return tables[0], nil
	default:
		return extract.Table{}, fmt.Errorf("%w for table import: %s", ErrUnsupportedFormat, format)
	}
}

// Document reads a file meant for a document import. Spreadsheets and
// delimited files become tables; PDFs and text become pages of lines.
func (l *Loader) Document(ctx context.Context, format Format, r io.Reader) (importer.Document, error) {
	data, err := l.read(r)
	if err != nil {
		return importer.Document{}, err
	}

	switch format {
	case FormatCSV:
		t, _, err := ReadDelimited(bytes.NewReader(data))
		if err != nil {
			return importer.Document{}, err
		}

		return importer.Document{Tables: []extract.Table{t}}, nil
	case FormatXLSX:
		tables, err := ReadWorkbook(bytes.NewReader(data))
		if err != nil {
			return importer.Document{}, err
		}

		return importer.Document{Tables: tables}, nil
	case FormatText:
		pages, err := ReadPages(bytes.NewReader(data))
		if err != nil {
			return importer.Document{}, err
		}

		return importer.Document{Pages: pages}, nil
	case FormatPDF:
		if l.PDF == nil {
			return importer.Document{}, fmt.Errorf("%w: no PDF text extractor configured", ErrUnsupportedFormat)
		}

		pages, err := l.PDF.Pages(ctx, bytes.NewReader(data))
		if err != nil {
			return importer.Document{}, err
		}

		return importer.Document{Pages: pages}, nil
	default:
		return importer.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (l *Loader) read(r io.Reader) ([]byte, error) {
	if l.MaxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	if int64(len(data)) > l.MaxBytes {
		return nil, ErrTooLarge
	}

	return data, nil
}
