package localization

import "testing"

func TestTranslateFallsBackToRussian(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		language string
		want     string
	}{
		{
			name:     "kazakh error",
			key:      "error",
			language: "kk",
			want:     "Сұрауыңызды өңдеу кезінде қате орын алды. Кейінірек қайталап көріңіз.",
		},
		{
			name:     "english default title",
			key:      "defaultTitle",
			language: "en",
			want:     "New Chat",
		},
		{
			name:     "unsupported language falls back",
			key:      "defaultTitle",
			language: "de",
			want:     "Новый чат",
		},
		{
			name:     "empty language falls back",
			key:      "error",
			language: "",
			want:     "Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте еще раз позже.",
		},
		{
			name:     "unknown key comes back verbatim",
			key:      "nonexistent",
			language: "ru",
			want:     "nonexistent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.key, tt.language)
			if got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.key, tt.language, got, tt.want)
			}
		})
	}
}

func TestCountryName(t *testing.T) {
	if got := CountryName("KZ"); got != "Казахстан" {
		t.Errorf("CountryName(KZ) = %q", got)
	}
	// Unknown codes pass through so the prompt still names the jurisdiction.
	if got := CountryName("ZZ"); got != "ZZ" {
		t.Errorf("CountryName(ZZ) = %q", got)
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[string]string{
		"ru": "русском",
		"kk": "казахском",
		"en": "английском",
	}
	for code, want := range tests {
		if got := LanguageName(code); got != want {
			t.Errorf("LanguageName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestIsDefaultTitle(t *testing.T) {
	for _, title := range []string{"Новый чат", "Жаңа чат", "New Chat"} {
		if !IsDefaultTitle(title) {
			t.Errorf("IsDefaultTitle(%q) = false, want true", title)
		}
	}
	if IsDefaultTitle("Вопрос о налогах") {
		t.Error("IsDefaultTitle should reject a user-derived title")
	}
}
