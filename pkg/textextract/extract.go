package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the plain text pulled out of an uploaded file, ready for
// analysis. WordCount is computed on the extracted text, not the raw
// bytes.
type Result struct {
	Content   string
	Pages     int
	WordCount int
	Format    string // pdf, docx, txt
}

// Supported reports whether the given extension or MIME type maps to a
// known extractor.
func Supported(fileType string) bool {
	_, ok := normalize(fileType)
	return ok
}

func normalize(fileType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(fileType)) {
	case ".pdf", "pdf", "application/pdf":
		return "pdf", true
	case ".docx", "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx", true
	case ".txt", "txt", "text/plain":
		return "txt", true
	}
	return "", false
}

// Extract pulls plain text from an uploaded file. fileType may be an
// extension (".pdf") or a MIME type.
func Extract(data io.ReaderAt, size int64, fileType string) (*Result, error) {
	format, ok := normalize(fileType)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}

	var (
		res *Result
		err error
	)
	switch format {
	case "pdf":
		res, err = extractPDF(data, size)
	case "docx":
		res, err = extractDOCX(data, size)
	case "txt":
		res, err = extractTXT(data, size)
	}
	if err != nil {
		return nil, err
	}

	res.Format = format
	res.WordCount = len(strings.Fields(res.Content))
	if res.WordCount == 0 {
		return nil, fmt.Errorf("no extractable text in %s file", format)
	}
	return res, nil
}

func extractPDF(data io.ReaderAt, size int64) (*Result, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// A single unreadable page should not sink the whole upload.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &Result{Content: strings.TrimSpace(buf.String()), Pages: numPages}, nil
}

func extractDOCX(data io.ReaderAt, size int64) (*Result, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}

	for _, f := range reader.File {
		if filepath.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		return &Result{Content: StripTags(string(content)), Pages: 1}, nil
	}
	return nil, fmt.Errorf("no document.xml in DOCX archive")
}

func extractTXT(data io.ReaderAt, size int64) (*Result, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}
	return &Result{Content: string(bytes.TrimSpace(buf)), Pages: 1}, nil
}

// StripTags removes XML/HTML markup and collapses runs of whitespace.
// It is also used to turn pasted HTML into analyzable plain text.
func StripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
