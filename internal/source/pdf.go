package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// PDFText extracts page text with poppler's pdftotext in layout mode.
type PDFText struct {
	Binary string
}

func NewPDFText(binary string) *PDFText {
	if binary == "" {
		binary = "pdftotext"
	}

	return &PDFText{Binary: binary}
}

func (p *PDFText) Pages(ctx context.Context, r io.Reader) ([][]string, error) {
	tmp, err := os.CreateTemp("", "tally-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, p.Binary, "-layout", tmp.Name(), "-")
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return ReadPages(bytes.NewReader(out))
}
