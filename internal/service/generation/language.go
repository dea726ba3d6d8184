package generation

// Language is the target reply language for the voice companion path.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Marathi Language = "mr"
)

var languageNames = map[Language]string{
	English: "English",
	Hindi:   "Hindi",
	Marathi: "Marathi",
}

// ParseLanguage validates a language code against the supported set.
func ParseLanguage(code string) (Language, bool) {
	lang := Language(code)
	_, ok := languageNames[lang]
	return lang, ok
}

// Name returns the human-readable language name used in prompts.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return languageNames[English]
}
