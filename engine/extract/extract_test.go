package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/windlabs/wind-engine/engine/domain"
)

func TestFromText(t *testing.T) {
	text := "Welcome to the hotel.\nEnjoy your stay."
	got := FromText(text)

	if got.Text != text {
		t.Errorf("text mismatch: %q", got.Text)
	}
	if len(got.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(got.Pages))
	}
	p := got.Pages[0]
	if p.PageNumber != 1 || p.CharStart != 0 || p.CharEnd != len(text) {
		t.Errorf("unexpected page boundary: %+v", p)
	}
}

func TestFromTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.txt")
	content := "Checkout is at 11am."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FromTextFile(path)
	if err != nil {
		t.Fatalf("FromTextFile: %v", err)
	}
	if got.Text != content {
		t.Errorf("text mismatch: %q", got.Text)
	}
}

func TestFromFile_Dispatch(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".txt", ".md"} {
		path := filepath.Join(dir, "doc"+ext)
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := FromFile(path); err != nil {
			t.Errorf("FromFile(%s): %v", ext, err)
		}
	}
}

func TestFromFile_UnsupportedFormat(t *testing.T) {
	_, err := FromFile("menu.docx")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if extErr.Path != "menu.docx" {
		t.Errorf("unexpected path: %s", extErr.Path)
	}
}

func TestFromFile_MissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}
