package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	content := `[
		{"name": "session", "value": "abc", "domain": ".example.si", "path": "/", "expires": 1900000000, "httpOnly": true, "secure": true, "sameSite": "Lax"},
		{"name": "consent", "value": "1", "domain": "www.example.si"},
		{"name": "", "value": "dropped", "domain": "www.example.si"}
	]`
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "session", first.Name)
	assert.Equal(t, ".example.si", *first.Domain)
	assert.Equal(t, float64(1900000000), *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read cookies")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadCookies(path)
	assert.ErrorContains(t, err, "parse cookies")
}
