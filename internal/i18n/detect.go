package i18n

import "strings"

// Keyword sets for the language guess. Function words and cooking vocabulary
// carry most of the signal in short chat messages.
var (
	spanishKeywords = map[string]struct{}{
		"hola": {}, "buenas": {}, "buenos": {}, "días": {}, "tardes": {},
		"noches": {}, "qué": {}, "que": {}, "quiero": {}, "necesito": {},
		"por": {}, "favor": {}, "gracias": {}, "plato": {}, "receta": {},
		"ingredientes": {}, "hacer": {}, "cocinar": {}, "preparar": {},
		"para": {}, "una": {}, "un": {}, "el": {}, "la": {}, "los": {},
		"las": {}, "de": {}, "con": {}, "cómo": {}, "como": {}, "y": {},
	}
	englishKeywords = map[string]struct{}{
		"hi": {}, "hello": {}, "hey": {}, "the": {}, "want": {}, "need": {},
		"please": {}, "thanks": {}, "thank": {}, "dish": {}, "recipe": {},
		"ingredients": {}, "make": {}, "cook": {}, "prepare": {}, "how": {},
		"what": {}, "for": {}, "with": {}, "a": {}, "an": {}, "i": {},
		"to": {}, "and": {}, "of": {},
	}
)

// Detect guesses the message language by counting keyword hits.
// Ties (including zero hits on both sides) resolve to Spanish, matching the
// agent's Spanish-first templates.
func Detect(text string) string {
	var es, en int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?¿¡\"'()")
		if word == "" {
			continue
		}
		if _, ok := spanishKeywords[word]; ok {
			es++
		}
		if _, ok := englishKeywords[word]; ok {
			en++
		}
	}
	if en > es {
		return LangEN
	}
	return LangES
}
