// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads agreement documents into plain text at the CLI
// boundary. The pipeline core only ever sees text; PDF conversion happens
// here, through a pluggable reader.
package ingest

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Reader turns a document file into plain UTF-8 text. Different backends
// (plain text, pdftotext) implement this interface.
type Reader interface {
	// Read returns the text content of the document at path.
	Read(path string) (string, error)
}

// TextReader reads a file as-is.
type TextReader struct{}

// Read returns the file contents.
func (TextReader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// PdftotextReader converts PDFs by invoking the pdftotext tool.
type PdftotextReader struct {
	// Bin is the pdftotext executable; empty means "pdftotext" on PATH.
	Bin string
}

// Read runs pdftotext on the PDF at path and returns its text output.
func (r PdftotextReader) Read(path string) (string, error) {
	bin := r.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("pdftotext not available: %w", err)
	}

	// "-" writes the extracted text to stdout.
	cmd := exec.Command(bin, "-layout", path, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("converting %s: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("pdftotext produced empty output for %s", path)
	}
	return out.String(), nil
}

// FromFile reads the document at path, selecting the reader by extension:
// .pdf goes through pdftotext, everything else is read as plain text.
func FromFile(path string) (string, error) {
	var r Reader = TextReader{}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		r = PdftotextReader{}
	}
	return r.Read(path)
}
