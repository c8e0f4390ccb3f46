package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", formatTimestamp(0))
	assert.Equal(t, "N/A", formatTimestamp(-1))
	assert.Equal(t, "2023-11-14T22:13:20Z", formatTimestamp(1700000000000))
}

func TestOwnerName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "N/A", ownerName(nil))
	assert.Equal(t, "N/A", ownerName(&apim.PrimaryOwner{}))
	assert.Equal(t, "Admin", ownerName(&apim.PrimaryOwner{DisplayName: "Admin"}))
}

func TestConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	viper.Reset()
	viper.SetConfigFile(path)

	saved := &Config{
		URL:                "https://apim.example.com/management",
		Username:           "admin",
		Token:              "bearer-token",
		Output:             "table",
		InsecureSkipVerify: true,
	}

	require.NoError(t, saveConfig(saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, viper.ReadInConfig())

	loaded := loadConfig()
	assert.Equal(t, saved.URL, loaded.URL)
	assert.Equal(t, saved.Username, loaded.Username)
	assert.Equal(t, saved.Token, loaded.Token)
	assert.True(t, loaded.InsecureSkipVerify)
}
