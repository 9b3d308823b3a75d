package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestTextPlain(t *testing.T) {
	got, err := Text("notes.txt", "text/plain", []byte("Договор аренды"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Договор аренды" {
		t.Errorf("got %q", got)
	}
}

func TestTextUnsupportedFormatYieldsPlaceholder(t *testing.T) {
	got, err := Text("scan.tiff", "image/tiff", []byte{0x49, 0x49})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "scan.tiff") || !strings.Contains(got, "не поддерживается") {
		t.Errorf("placeholder must name the file and format: %q", got)
	}
}

func TestTextLegacyDocYieldsPlaceholder(t *testing.T) {
	got, err := Text("contract.doc", "application/msword", []byte("binary"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "contract.doc") {
		t.Errorf("placeholder must name the file: %q", got)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
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

func TestTextDocx(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Первый абзац.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Второй </w:t></w:r><w:r><w:t>абзац.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := Text("doc.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", buildDocx(t, docXML))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Первый абзац.") {
		t.Errorf("missing first paragraph: %q", got)
	}
	if !strings.Contains(got, "Второй абзац.") {
		t.Errorf("runs within a paragraph must join without separators: %q", got)
	}
}

func TestTextDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	_, err := Text("bad.docx", "", buf.Bytes())
	if err == nil {
		t.Error("a docx without word/document.xml must fail")
	}
}

func TestTextDocxByExtension(t *testing.T) {
	docXML := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Текст</w:t></w:r></w:p></w:body></w:document>`
	got, err := Text("file.DOCX", "application/octet-stream", buildDocx(t, docXML))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Текст") {
		t.Errorf("extension match must route to the docx parser: %q", got)
	}
}
