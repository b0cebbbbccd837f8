package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/custodia-labs/librarian-cli/internal/adapters/driven/config/file"
)

// tempConfigStore installs a config store rooted in a temp directory.
func tempConfigStore(t *testing.T) *configfile.ConfigStore {
	t.Helper()
	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	old := configStore
	configStore = store
	t.Cleanup(func() { configStore = old })
	return store
}

func TestConfigShow_UnsetKeys(t *testing.T) {
	tempConfigStore(t)

	out, err := execute("config")

	require.NoError(t, err)
	assert.Contains(t, out, configfile.KeySpreadsheetID)
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "Warning:")
}

func TestConfigShow_CompleteConfiguration(t *testing.T) {
	store := tempConfigStore(t)
	for key, value := range map[string]string{
		configfile.KeySpreadsheetID:    "sheet-1",
		configfile.KeyTaggingFolderID:  "folder-tag",
		configfile.KeyLiveFolderID:     "folder-live",
		configfile.KeyCredentialsFile:  "/etc/librarian/creds.json",
		configfile.KeyQdrantURL:        "localhost:6334",
		configfile.KeyQdrantCollection: "documents",
	} {
		require.NoError(t, store.Set(key, value))
	}

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is complete.")
	assert.NotContains(t, out, "Warning:")
}

func TestConfigShow_MasksAPIKey(t *testing.T) {
	store := tempConfigStore(t)
	require.NoError(t, store.Set(configfile.KeyQdrantAPIKey, "abcd1234efgh5678"))

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "abcd...5678")
	assert.NotContains(t, out, "abcd1234efgh5678")
}

func TestConfigSet_RoundTrip(t *testing.T) {
	store := tempConfigStore(t)

	out, err := execute("config", "set", configfile.KeySheetName, "Catalog")

	require.NoError(t, err)
	assert.Contains(t, out, "Set "+configfile.KeySheetName)
	assert.Equal(t, "Catalog", store.GetString(configfile.KeySheetName))
}

func TestConfigCmd_StoreNotConfigured(t *testing.T) {
	old := configStore
	configStore = nil
	defer func() { configStore = old }()

	_, err := execute("config")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "****", maskSecret("12345678"))
	assert.Equal(t, "abcd...wxyz", maskSecret("abcdefstuvwxyz"))
}

func TestConfigShow_MasksAccessToken(t *testing.T) {
	store := tempConfigStore(t)
	require.NoError(t, store.Set(configfile.KeyAccessToken, "ya29.secret-token-value"))

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, configfile.KeyAccessToken)
	assert.NotContains(t, out, "ya29.secret-token-value")
}

func TestConfigShow_AccessTokenCompletesAuth(t *testing.T) {
	store := tempConfigStore(t)
	for key, value := range map[string]string{
		configfile.KeySpreadsheetID:    "sheet-1",
		configfile.KeyTaggingFolderID:  "folder-tag",
		configfile.KeyLiveFolderID:     "folder-live",
		configfile.KeyAccessToken:      "ya29.stored-token",
		configfile.KeyQdrantURL:        "localhost:6334",
		configfile.KeyQdrantCollection: "documents",
	} {
		require.NoError(t, store.Set(key, value))
	}

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is complete.")
}
