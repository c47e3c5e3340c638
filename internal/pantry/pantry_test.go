package pantry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexia-ai/sous/internal/log"
)

func TestSaveIngredients(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewStore(dir, log.NewNop())

	path, err := s.SaveIngredients([]string{"huevos", "patatas", "sal"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, IngredientsFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "huevos\npatatas\nsal\n", string(data))
}

func TestSaveIngredients_OverwritesPreviousRun(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir(), log.NewNop())

	_, err := s.SaveIngredients([]string{"huevos", "patatas"})
	require.NoError(t, err)

	path, err := s.SaveIngredients([]string{"arroz"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arroz\n", string(data))
}

func TestSaveIngredients_ConcurrentWritesStayWhole(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir(), log.NewNop())

	lists := [][]string{
		{"huevos", "patatas", "cebolla"},
		{"arroz", "pollo", "azafrán"},
	}

	var wg sync.WaitGroup
	for _, list := range lists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SaveIngredients(list)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(s.dir, IngredientsFile))
	require.NoError(t, err)

	// The file must match one run exactly, never an interleaving.
	got := string(data)
	assert.Contains(t, []string{"huevos\npatatas\ncebolla\n", "arroz\npollo\nazafrán\n"}, got)
}

func TestSaveMenu(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir(), log.NewNop())
	path, err := s.SaveMenu([]string{"Paella", "Gazpacho"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Paella\nGazpacho\n", string(data))
}

func TestParseMenuItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "strips bullets",
			text: "- Paella\n* Gazpacho\n• Tortilla",
			want: []string{"Paella", "Gazpacho", "Tortilla"},
		},
		{
			name: "strips prices",
			text: "Paella $12.50\nGazpacho 6.99€",
			want: []string{"Paella", "Gazpacho"},
		},
		{
			name: "skips section headers",
			text: "Starters\nGazpacho\nDesserts\nFlan",
			want: []string{"Gazpacho", "Flan"},
		},
		{
			name: "skips description lines",
			text: "Paella\nserved with bread and aioli",
			want: []string{"Paella"},
		},
		{
			name: "skips mostly-symbolic lines",
			text: "Paella\n=====\n12345",
			want: []string{"Paella"},
		},
		{
			// Exactly half letters passes; strictly under half is dropped,
			// including odd lengths where letters equal the rounded-down half.
			name: "half-symbolic boundary",
			text: "Flan####\nFlan#####",
			want: []string{"Flan####"},
		},
		{
			name: "deduplicates preserving order",
			text: "Paella\nGazpacho\nPaella",
			want: []string{"Paella", "Gazpacho"},
		},
		{
			name: "skips short and empty lines",
			text: "\nP\n  \nPaella",
			want: []string{"Paella"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseMenuItems(tt.text))
		})
	}
}
