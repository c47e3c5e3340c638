// Package i18n provides the agent's user-facing message catalogs and a small
// keyword-based language guesser. Responses are localized per request, not
// per process: two threads can converse in different languages at once.
package i18n

import (
	"fmt"
	"strings"
)

// Supported languages.
const (
	LangES = "es"
	LangEN = "en"
)

// messages stores all translations, keyed by language then message key.
var messages = map[string]map[string]string{
	LangEN: englishMessages,
	LangES: spanishMessages,
}

// T returns the translated message for the given key.
// Falls back to Spanish, then to the key itself.
func T(lang, key string) string {
	if msg, ok := messages[normalize(lang)][key]; ok {
		return msg
	}
	if msg, ok := messages[LangES][key]; ok {
		return msg
	}
	return key
}

// Sprintf returns the translated and formatted message.
func Sprintf(lang, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	_, ok := messages[normalize(lang)]
	return ok
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "es", "es-es", "es-mx", "spanish":
		return LangES
	case "en", "en-us", "en-gb", "english":
		return LangEN
	}
	return lang
}
