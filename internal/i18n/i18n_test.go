package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"spanish request", "quiero preparar una tortilla de patata por favor", LangES},
		{"english request", "i want to make a potato omelette please", LangEN},
		{"spanish greeting", "hola buenas tardes", LangES},
		{"english greeting", "hello, how are you", LangEN},
		{"no keywords defaults to spanish", "tortilla", LangES},
		{"tie defaults to spanish", "hola hello", LangES},
		{"empty defaults to spanish", "", LangES},
		{"punctuation stripped", "¿Cómo cocinar paella?", LangES},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestT(t *testing.T) {
	t.Parallel()

	t.Run("spanish", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, T(LangES, "agent.analyzing"), "Analizando")
	})

	t.Run("english", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, T(LangEN, "agent.analyzing"), "Analyzing")
	})

	t.Run("unknown language falls back to spanish", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, T(LangES, "agent.greeting"), T("fr", "agent.greeting"))
	})

	t.Run("unknown key returns key", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "nope.missing", T(LangES, "nope.missing"))
	})

	t.Run("normalizes language codes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, T(LangEN, "agent.greeting"), T("EN-US", "agent.greeting"))
	})
}

func TestSprintf(t *testing.T) {
	t.Parallel()

	got := Sprintf(LangES, "ingredients.saved", 5, "ingredients.txt")
	assert.Contains(t, got, "5")
	assert.Contains(t, got, "ingredients.txt")
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSupported("es"))
	assert.True(t, IsSupported("English"))
	assert.False(t, IsSupported("ja"))
}
