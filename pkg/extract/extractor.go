package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text pulls plain text out of an uploaded document. Plain-text types are read
// directly, PDF and DOCX go through format parsers. Unsupported types return a
// descriptive placeholder instead of an error so a conversation can still
// reference the file by name.
func Text(name, contentType string, data []byte) (string, error) {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return string(data), nil
	case contentType == "application/pdf" || hasExt(name, ".pdf"):
		return pdfText(data)
	case contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || hasExt(name, ".docx"):
		return docxText(data)
	case contentType == "application/msword" || hasExt(name, ".doc"):
		// Legacy binary .doc has no lightweight Go parser; fall through to the
		// placeholder.
		return placeholder(name, contentType), nil
	default:
		return placeholder(name, contentType), nil
	}
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

func placeholder(name, contentType string) string {
	return fmt.Sprintf("Документ: %s (тип: %s). Извлечение текста для этого формата не поддерживается.", name, contentType)
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// docx document.xml text nodes
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("open docx: word/document.xml missing")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
