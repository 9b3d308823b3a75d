package prompt

import (
	"strings"
	"testing"

	"github.com/RakhimovY/AIChat/internal/constant"
)

func TestBuildMinimalPrompt(t *testing.T) {
	got := NewBuilder(Input{Question: "Как расторгнуть договор?"}).Build()

	if !strings.HasPrefix(got, constant.LegalSystemPrompt) {
		t.Error("prompt must start with the system prompt")
	}
	if !strings.HasSuffix(got, "Вот мой вопрос: Как расторгнуть договор?") {
		t.Errorf("prompt must end with the question, got tail %q", got[len(got)-60:])
	}
	if strings.Contains(got, "находится в стране") {
		t.Error("country block must be absent without a country")
	}
	if strings.Contains(got, "НАЧАЛО ДОКУМЕНТА") {
		t.Error("document block must be absent without a document")
	}
}

func TestBuildBlockOrder(t *testing.T) {
	got := NewBuilder(Input{
		Question:     "Вопрос",
		Country:      "KZ",
		Language:     "kk",
		DocumentText: "Текст договора",
		LawExcerpts:  []string{"Статья 1."},
	}).Build()

	markers := []string{
		"Пользователь находится в стране: Казахстан",
		"--- ВЫДЕРЖКА ---",
		"на казахском языке",
		"--- НАЧАЛО ДОКУМЕНТА ---",
		"Вот мой вопрос: Вопрос",
	}

	last := -1
	for _, marker := range markers {
		idx := strings.Index(got, marker)
		if idx < 0 {
			t.Fatalf("marker %q missing from prompt", marker)
		}
		if idx < last {
			t.Errorf("marker %q out of order", marker)
		}
		last = idx
	}
}

func TestBuildUnknownCountryPassesThrough(t *testing.T) {
	got := NewBuilder(Input{Question: "q", Country: "ZZ"}).Build()
	if !strings.Contains(got, "Пользователь находится в стране: ZZ.") {
		t.Error("unknown country code must appear verbatim")
	}
}

func TestBuildTruncatesLongDocument(t *testing.T) {
	longDoc := strings.Repeat("ю", MaxDocumentRunes+100)
	got := NewBuilder(Input{Question: "q", DocumentText: longDoc}).Build()

	if !strings.Contains(got, truncationMarker) {
		t.Error("truncation marker missing for oversized document")
	}
	if strings.Count(got, "ю") != MaxDocumentRunes {
		t.Errorf("document must be cut to %d runes, found %d", MaxDocumentRunes, strings.Count(got, "ю"))
	}
}

func TestBuildDocumentWithinLimitKeptWhole(t *testing.T) {
	doc := strings.Repeat("д", 1000)
	got := NewBuilder(Input{Question: "q", DocumentText: doc}).Build()

	if strings.Contains(got, truncationMarker) {
		t.Error("short document must not be truncated")
	}
	if !strings.Contains(got, doc) {
		t.Error("document text must be embedded verbatim")
	}
}
