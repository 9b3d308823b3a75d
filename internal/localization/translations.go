package localization

// Static message catalog for system-generated text. The maps are package-level
// and never mutated after init, so lookups are safe from any goroutine.

const DefaultLanguage = "ru"

var translations = map[string]map[string]string{
	"ru": {
		"error":        "Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте еще раз позже.",
		"defaultTitle": "Новый чат",
	},
	"kk": {
		"error":        "Сұрауыңызды өңдеу кезінде қате орын алды. Кейінірек қайталап көріңіз.",
		"defaultTitle": "Жаңа чат",
	},
	"en": {
		"error":        "An error occurred while processing your request. Please try again later.",
		"defaultTitle": "New Chat",
	},
}

var countryNames = map[string]string{
	"RU": "Россия",
	"KZ": "Казахстан",
	"BY": "Беларусь",
	"UA": "Украина",
	"UZ": "Узбекистан",
	"KG": "Кыргызстан",
	"TJ": "Таджикистан",
	"TM": "Туркменистан",
	"AZ": "Азербайджан",
	"AM": "Армения",
	"GE": "Грузия",
	"MD": "Молдова",
	"US": "США",
	"GB": "Великобритания",
	"DE": "Германия",
	"FR": "Франция",
	"IT": "Италия",
	"ES": "Испания",
	"CN": "Китай",
	"JP": "Япония",
	"IN": "Индия",
	"BR": "Бразилия",
	"CA": "Канада",
	"AU": "Австралия",
}

var languageNames = map[string]string{
	"ru": "русском",
	"kk": "казахском",
	"en": "английском",
}

// Translate resolves key in the given language. Unsupported or empty languages
// fall back to Russian; an unknown key comes back verbatim so the caller never
// receives an empty string.
func Translate(key, language string) string {
	lang := language
	if _, ok := translations[lang]; !ok {
		lang = DefaultLanguage
	}
	if v, ok := translations[lang][key]; ok {
		return v
	}
	if v, ok := translations[DefaultLanguage][key]; ok {
		return v
	}
	return key
}

// CountryName maps an ISO 3166-1 alpha-2 code to its display name. Unrecognized
// codes are returned as-is rather than dropped, the prompt still names the
// jurisdiction the client asked for.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// LanguageName maps a language code to the prepositional form used in prompt
// instructions. Unknown codes resolve to Russian.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames[DefaultLanguage]
}

// DefaultTitle returns the localized placeholder title for a new chat.
func DefaultTitle(language string) string {
	return Translate("defaultTitle", language)
}

// IsDefaultTitle reports whether title is one of the localized placeholder
// titles. Used to decide whether a chat may still be renamed from its first
// message.
func IsDefaultTitle(title string) bool {
	for _, entries := range translations {
		if entries["defaultTitle"] == title {
			return true
		}
	}
	return false
}

// ErrorMessage returns the localized fallback text shown when the assistant
// could not produce an answer.
func ErrorMessage(language string) string {
	return Translate("error", language)
}
