// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTextReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agreement.txt")
	want := "The Borrower shall deliver audited financial statements.\n"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := TextReader{}.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != want {
		t.Errorf("Read() = %q, want %q", got, want)
	}
}

func TestTextReaderMissingFile(t *testing.T) {
	_, err := TextReader{}.Read(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Read() on missing file returned nil error")
	}
}

func TestFromFileSelectsTextReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agreement.TXT")
	if err := os.WriteFile(path, []byte("notice of default"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if got != "notice of default" {
		t.Errorf("FromFile() = %q", got)
	}
}

func TestPdftotextReaderMissingBinary(t *testing.T) {
	r := PdftotextReader{Bin: filepath.Join(t.TempDir(), "no-such-pdftotext")}
	if _, err := r.Read("agreement.pdf"); err == nil {
		t.Fatal("Read() with missing converter returned nil error")
	}
}
