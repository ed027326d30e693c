package utils

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
)

func TestDecodeImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image"))

	tests := []struct {
		name    string
		input   string
		wantExt string
		wantErr bool
	}{
		{name: "png", input: "data:image/png;base64," + payload, wantExt: "png"},
		{name: "jpeg becomes jpg", input: "data:image/jpeg;base64," + payload, wantExt: "jpg"},
		{name: "not an image", input: "data:text/plain;base64," + payload, wantErr: true},
		{name: "plain url", input: "http://example.com/a.png", wantErr: true},
		{name: "broken payload", input: "data:image/png;base64,@@@", wantErr: true},
		{name: "empty payload", input: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ext, err := DecodeImageDataURI(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
			assert.Equal(t, "fake image", string(data))
		})
	}
}

func TestValidator_Username(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("chef.john+1@home", "username"))
	assert.Error(t, v.Var("chef john", "username"))
	assert.Error(t, v.Var("chef/john", "username"))
}

func TestValidator_TagSlug(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("breakfast_2-x", "tagslug"))
	assert.Error(t, v.Var("завтрак", "tagslug"))
	assert.Error(t, v.Var("two words", "tagslug"))
}

func TestGetConfig_Fallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_HOST: db.internal\nRATE_LIMIT: 5\n"), 0o600))
	LoadConfigFile(path)
	t.Cleanup(func() { config = Config{} })

	t.Setenv("DB_NAME", "foodgram_env")

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "foodgram_env", GetConfig("DB_NAME"))
	assert.Equal(t, "5432", GetConfig("DB_PORT"))
	assert.Equal(t, 5, GetConfigInt("RATE_LIMIT"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}
