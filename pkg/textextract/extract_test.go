package textextract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		fileType string
		want     bool
	}{
		{".pdf", true},
		{"PDF", true},
		{"application/pdf", true},
		{".docx", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"text/plain", true},
		{".txt", true},
		{".doc", false},
		{".html", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.fileType); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.fileType, got, tt.want)
		}
	}
}

func TestExtractTXT(t *testing.T) {
	data := []byte("  The quick brown fox jumps over the lazy dog.\n")
	res, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Content != "The quick brown fox jumps over the lazy dog." {
		t.Errorf("content = %q", res.Content)
	}
	if res.WordCount != 9 {
		t.Errorf("word count = %d, want 9", res.WordCount)
	}
	if res.Format != "txt" {
		t.Errorf("format = %q, want txt", res.Format)
	}
}

func TestExtractTXTEmpty(t *testing.T) {
	data := []byte("   \n\t ")
	if _, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt"); err == nil {
		t.Fatal("expected error for whitespace-only file")
	}
}

func TestExtractDOCX(t *testing.T) {
	doc := buildDOCX(t, `<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t>academic world</w:t></w:r></w:p></w:body></w:document>`)
	res, err := Extract(bytes.NewReader(doc), int64(len(doc)), ".docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Content != "Hello academic world" {
		t.Errorf("content = %q", res.Content)
	}
	if res.WordCount != 3 {
		t.Errorf("word count = %d, want 3", res.WordCount)
	}
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	data := buf.Bytes()
	if _, err := Extract(bytes.NewReader(data), int64(len(data)), ".docx"); err == nil {
		t.Fatal("expected error for archive without document.xml")
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	data := []byte("x")
	_, err := Extract(bytes.NewReader(data), 1, ".odt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("error = %v, want unsupported file type", err)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"html", "<p>First</p><p>Second   paragraph</p>", "First Second paragraph"},
		{"nested", "<div><span>a</span> <b>b</b></div>", "a b"},
		{"empty tags", "<br/><hr/>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
