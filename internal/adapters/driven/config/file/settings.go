package file

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Configuration keys. Nested TOML tables flatten into these dot keys.
const (
	KeySpreadsheetID      = "sheets.spreadsheet_id"
	KeySheetName          = "sheets.sheet_name"
	KeyTaggingFolderID    = "drive.tagging_folder_id"
	KeyLiveFolderID       = "drive.live_folder_id"
	KeyCredentialsFile    = "google.credentials_file"
	KeyAccessToken        = "google.access_token"
	KeyQdrantURL          = "qdrant.url"
	KeyQdrantAPIKey       = "qdrant.api_key"
	KeyQdrantCollection   = "qdrant.collection"
	KeyInboxDir           = "inbox.dir"
	KeyGoogleRateLimitQPS = "google.rate_limit_qps"
)

// defaultSheetName matches the catalog tab most deployments use.
const defaultSheetName = "Sheet1"

// Settings is the typed view over the raw config store that the CLI
// wiring consumes.
type Settings struct {
	// SpreadsheetID and SheetName locate the catalog sheet.
	SpreadsheetID string
	SheetName     string

	// TaggingFolderID holds proposed uploads; LiveFolderID holds
	// published documents.
	TaggingFolderID string
	LiveFolderID    string

	// CredentialsFile is the Google service-account JSON key path.
	// AccessToken is a user OAuth token used instead of the key file;
	// when set it wins.
	CredentialsFile string
	AccessToken     string

	// Qdrant connection.
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	// InboxDir is the local directory scanned for new documents.
	InboxDir string

	// GoogleRateLimitQPS caps Sheets/Drive request rates (0 = default).
	GoogleRateLimitQPS int
}

// LoadSettings reads the typed settings out of a config store.
func LoadSettings(store driven.ConfigStore) Settings {
	s := Settings{
		SpreadsheetID:      store.GetString(KeySpreadsheetID),
		SheetName:          store.GetString(KeySheetName),
		TaggingFolderID:    store.GetString(KeyTaggingFolderID),
		LiveFolderID:       store.GetString(KeyLiveFolderID),
		CredentialsFile:    store.GetString(KeyCredentialsFile),
		AccessToken:        store.GetString(KeyAccessToken),
		QdrantURL:          store.GetString(KeyQdrantURL),
		QdrantAPIKey:       store.GetString(KeyQdrantAPIKey),
		QdrantCollection:   store.GetString(KeyQdrantCollection),
		InboxDir:           store.GetString(KeyInboxDir),
		GoogleRateLimitQPS: store.GetInt(KeyGoogleRateLimitQPS),
	}
	if s.SheetName == "" {
		s.SheetName = defaultSheetName
	}
	return s
}

// Validate reports the first missing setting required to reach the three
// stores. Google auth needs either a credentials file or an access token;
// optional settings (inbox, rate limit) are not checked. Failures wrap
// ErrNotConfigured.
func (s Settings) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{KeySpreadsheetID, s.SpreadsheetID},
		{KeyTaggingFolderID, s.TaggingFolderID},
		{KeyLiveFolderID, s.LiveFolderID},
		{KeyQdrantURL, s.QdrantURL},
		{KeyQdrantCollection, s.QdrantCollection},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: missing required setting %q", ErrNotConfigured, r.key)
		}
	}
	if s.CredentialsFile == "" && s.AccessToken == "" {
		return fmt.Errorf("%w: set %q or %q", ErrNotConfigured, KeyCredentialsFile, KeyAccessToken)
	}
	return nil
}

// ErrNotConfigured marks every Validate failure so callers can
// distinguish incomplete configuration from store errors.
var ErrNotConfigured = errors.New("librarian is not configured; run 'librarian config' to set required values")
