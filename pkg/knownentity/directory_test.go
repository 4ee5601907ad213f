package knownentity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBest_ExactMatch(t *testing.T) {
	d := New([]string{"Nike", "Adidas", "Puma"})

	m := d.Best("nike")
	assert.Equal(t, "Nike", m.Name)
	assert.Equal(t, 1.0, m.Score)
}

func TestBest_NearMiss(t *testing.T) {
	d := New([]string{"Nike", "Adidas", "Puma"})

	m := d.Best("adibas")
	assert.Equal(t, "Adidas", m.Name)
	assert.Greater(t, m.Score, 0.6)
	assert.Less(t, m.Score, 1.0)
}

func TestBest_EmptyInputs(t *testing.T) {
	d := New([]string{"Nike"})
	assert.Equal(t, Match{}, d.Best("   "))

	empty := New(nil)
	assert.Equal(t, Match{}, empty.Best("nike"))
}

func TestNew_DropsBlankEntries(t *testing.T) {
	d := New([]string{"Nike", "  ", "", "Puma"})
	assert.Equal(t, 2, d.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.txt")
	content := "# curated brand directory\nNike\n\nAdidas\n  Puma  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	m := d.Best("puma")
	assert.Equal(t, "Puma", m.Name)
	assert.Equal(t, 1.0, m.Score)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/brands.txt")
	require.Error(t, err)
}
