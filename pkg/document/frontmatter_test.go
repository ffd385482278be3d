package document

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/sitemark/internal/ulid"
)

var testMockID = "01HF53Z4RCSSJYSR6J9T2V1PWF"

func TestMain(m *testing.M) {
	ulid.MockGenerator(testMockID)
	code := m.Run()
	ulid.ResetGenerator()
	os.Exit(code)
}

func TestParseFrontmatter(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\ntitle: Home\nlayout: base\ntags:\n  - news\n  - local\ndraft: true\n---"))
		require.NoError(t, err)
		assert.Equal(t, "Home", f.Title)
		assert.Equal(t, "base", f.Layout)
		assert.Equal(t, []string{"news", "local"}, f.Tags)
		assert.True(t, f.Draft)
	})

	t.Run("JSON", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\n{\"title\": \"Home\", \"layout\": \"base\"}\n---"))
		require.NoError(t, err)
		assert.Equal(t, "Home", f.Title)
		assert.Equal(t, "base", f.Layout)
	})

	t.Run("TOML", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("+++\ntitle = \"Home\"\nlayout = \"base\"\n+++"))
		require.NoError(t, err)
		assert.Equal(t, "Home", f.Title)
		assert.Equal(t, "base", f.Layout)
	})

	t.Run("Identity", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\ntitle: Home\nsitemark:\n  id: 01ARZ3NDEKTSV4RRFFQ69G5FAV\n  version: \"1\"\n---"))
		require.NoError(t, err)
		require.NotNil(t, f.Sitemark)
		assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", f.Sitemark.ID)
		assert.Equal(t, "1", f.Sitemark.Version)
	})

	t.Run("Empty", func(t *testing.T) {
		f, err := ParseFrontmatter(nil)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("MismatchedDelimiters", func(t *testing.T) {
		_, err := ParseFrontmatter([]byte("---\ntitle: Home\n+++"))
		require.ErrorIs(t, err, ErrFrontmatterInvalid)
	})

	t.Run("Unparsable", func(t *testing.T) {
		_, err := ParseFrontmatter([]byte("---\n\t:\n---"))
		require.Error(t, err)
	})
}

func TestFrontmatter_Marshal(t *testing.T) {
	t.Run("NilWithoutIdentity", func(t *testing.T) {
		var f *Frontmatter
		data, err := f.Marshal(false)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("NilWithIdentity", func(t *testing.T) {
		var f *Frontmatter
		data, err := f.Marshal(true)
		require.NoError(t, err)
		assert.Contains(t, string(data), "id: "+testMockID)
		assert.Contains(t, string(data), `version: "1"`)
	})

	t.Run("UnknownKeysSurvive", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\ntitle: Home\ncustom_key: keep me\n---"))
		require.NoError(t, err)

		f.Title = "Updated"
		data, err := f.Marshal(false)
		require.NoError(t, err)

		assert.Contains(t, string(data), "custom_key: keep me")
		assert.Contains(t, string(data), "title: Updated")
	})

	t.Run("FormatPreserved", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("+++\ntitle = \"Home\"\n+++"))
		require.NoError(t, err)

		data, err := f.Marshal(false)
		require.NoError(t, err)

		s := string(data)
		assert.True(t, len(s) > 6 && s[:4] == "+++\n" && s[len(s)-3:] == "+++")
		assert.Contains(t, s, `title = 'Home'`)
	})

	t.Run("IdentityMinted", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\ntitle: Home\n---"))
		require.NoError(t, err)

		data, err := f.Marshal(true)
		require.NoError(t, err)
		assert.Contains(t, string(data), "id: "+testMockID)
	})

	t.Run("ExistingIdentityPreserved", func(t *testing.T) {
		f, err := ParseFrontmatter([]byte("---\nsitemark:\n  id: 01ARZ3NDEKTSV4RRFFQ69G5FAV\n  version: \"1\"\n---"))
		require.NoError(t, err)

		data, err := f.Marshal(true)
		require.NoError(t, err)
		assert.Contains(t, string(data), "id: 01ARZ3NDEKTSV4RRFFQ69G5FAV")
		assert.NotContains(t, string(data), testMockID)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		raw := []byte("---\nlayout: base\ntitle: Home\n---")
		f, err := ParseFrontmatter(raw)
		require.NoError(t, err)

		data, err := f.Marshal(false)
		require.NoError(t, err)

		reparsed, err := ParseFrontmatter(data)
		require.NoError(t, err)
		assert.Equal(t, f.Title, reparsed.Title)
		assert.Equal(t, f.Layout, reparsed.Layout)
	})
}
