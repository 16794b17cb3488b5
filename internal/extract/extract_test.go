package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatalf("create content types: %v", err)
	}
	if _, err := w.Write([]byte(`<?xml version="1.0"?><Types/>`)); err != nil {
		t.Fatalf("write content types: %v", err)
	}
	w, err = zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write document: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextDocxParagraphs(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Go developer with Kubernetes experience")

	text, err := Text(context.Background(), data, mimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Jane Doe\nGo developer with Kubernetes experience" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Python")

	if _, err := Text(context.Background(), data, "application/zip", "cv.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestTextRealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextPDF(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(20, 20, "Kubernetes")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}

	text, err := Text(context.Background(), buf.Bytes(), "application/pdf", "cv.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Kubernetes") {
		t.Fatalf("expected extracted text to contain Kubernetes, got %q", text)
	}
}

func TestTextHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, buildDocx(t, "x"), mimeDOCX, "cv.docx"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
