package prompt

import (
	"strings"
	"unicode/utf8"

	"github.com/RakhimovY/AIChat/internal/constant"
	"github.com/RakhimovY/AIChat/internal/localization"
)

// MaxDocumentRunes caps how much extracted document text enters a prompt.
// Longer documents are truncated with a marker instead of being rejected.
const MaxDocumentRunes = 60000

const truncationMarker = "\n[... документ обрезан ...]"

// Input carries everything a single assistant turn needs. Country, Language,
// DocumentText and LawExcerpts are optional; empty values skip their block.
type Input struct {
	Question     string
	Country      string
	Language     string
	DocumentText string
	LawExcerpts  []string
}

// Builder assembles the layered prompt for one turn. Block order is fixed:
// system prompt, jurisdiction, statute excerpts, language, document, question.
type Builder struct {
	input Input
}

func NewBuilder(input Input) *Builder {
	return &Builder{input: input}
}

func (b *Builder) Build() string {
	var prompt strings.Builder
	prompt.Grow(len(constant.LegalSystemPrompt) + 1000)

	prompt.WriteString(constant.LegalSystemPrompt)
	prompt.WriteString("\n\n")

	b.writeCountry(&prompt)
	b.writeLawExcerpts(&prompt)
	b.writeLanguage(&prompt)
	b.writeDocument(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *Builder) writeCountry(prompt *strings.Builder) {
	if b.input.Country == "" {
		return
	}

	countryName := localization.CountryName(b.input.Country)

	prompt.WriteString("Пользователь находится в стране: ")
	prompt.WriteString(countryName)
	prompt.WriteString(".\n")
	prompt.WriteString("Адаптируй свой ответ к правовой системе и законодательству этой страны.\n")
	prompt.WriteString("Используй актуальные законы, нормативные акты и правовые документы этой страны.\n")
	prompt.WriteString("Если цитируешь законы, конституцию или другие правовые документы, указывай их точные названия и номера статей.\n\n")
}

func (b *Builder) writeLawExcerpts(prompt *strings.Builder) {
	if len(b.input.LawExcerpts) == 0 {
		return
	}

	prompt.WriteString("Ниже приведены выдержки из законодательства, которые могут относиться к вопросу пользователя:\n\n")
	for _, excerpt := range b.input.LawExcerpts {
		prompt.WriteString("--- ВЫДЕРЖКА ---\n")
		prompt.WriteString(excerpt)
		prompt.WriteString("\n")
	}
	prompt.WriteString("--- КОНЕЦ ВЫДЕРЖЕК ---\n\n")
	prompt.WriteString("Опирайся на эти выдержки, если они релевантны вопросу.\n\n")
}

func (b *Builder) writeLanguage(prompt *strings.Builder) {
	if b.input.Language == "" {
		return
	}

	languageName := localization.LanguageName(b.input.Language)

	prompt.WriteString("Пользователь предпочитает общение на ")
	prompt.WriteString(languageName)
	prompt.WriteString(" языке.\n")
	prompt.WriteString("Пожалуйста, отвечай на ")
	prompt.WriteString(languageName)
	prompt.WriteString(" языке.\n\n")
}

func (b *Builder) writeDocument(prompt *strings.Builder) {
	if b.input.DocumentText == "" {
		return
	}

	text := b.input.DocumentText
	if utf8.RuneCountInString(text) > MaxDocumentRunes {
		runes := []rune(text)
		text = string(runes[:MaxDocumentRunes]) + truncationMarker
	}

	prompt.WriteString("Пользователь предоставил следующий документ. Используй информацию из него для ответа на вопрос:\n\n")
	prompt.WriteString("--- НАЧАЛО ДОКУМЕНТА ---\n")
	prompt.WriteString(text)
	prompt.WriteString("\n--- КОНЕЦ ДОКУМЕНТА ---\n\n")
	prompt.WriteString("Анализируй информацию из документа и используй ее для ответа на вопрос пользователя. ")
	prompt.WriteString("Если документ содержит релевантную информацию, ссылайся на нее в своем ответе.\n\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Вот мой вопрос: ")
	prompt.WriteString(b.input.Question)
}
