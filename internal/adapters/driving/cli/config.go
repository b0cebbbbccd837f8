package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/librarian-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Shows the current configuration. Use 'config set' to change a value.

Required settings:
  sheets.spreadsheet_id    catalog spreadsheet ID
  drive.tagging_folder_id  Drive folder for proposed documents
  drive.live_folder_id     Drive folder for published documents
  google.credentials_file  service-account JSON key path
  qdrant.url               Qdrant address (host:port)
  qdrant.collection        Qdrant collection name

Optional settings:
  sheets.sheet_name        catalog tab name (default Sheet1)
  google.access_token      user OAuth token, used instead of the key file
  google.rate_limit_qps    cap on Sheets/Drive requests per second
  qdrant.api_key           Qdrant API key
  inbox.dir                default inbox for 'librarian propose'`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// shownKeys is the display order for config show. Secrets are masked.
var shownKeys = []struct {
	key    string
	secret bool
}{
	{key: configfile.KeySpreadsheetID},
	{key: configfile.KeySheetName},
	{key: configfile.KeyTaggingFolderID},
	{key: configfile.KeyLiveFolderID},
	{key: configfile.KeyCredentialsFile},
	{key: configfile.KeyAccessToken, secret: true},
	{key: configfile.KeyQdrantURL},
	{key: configfile.KeyQdrantAPIKey, secret: true},
	{key: configfile.KeyQdrantCollection},
	{key: configfile.KeyInboxDir},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s)\n\n", configStore.Path())
	for _, entry := range shownKeys {
		value := configStore.GetString(entry.key)
		switch {
		case value == "":
			value = "(not set)"
		case entry.secret:
			value = maskSecret(value)
		}
		cmd.Printf("  %-26s %s\n", entry.key, value)
	}

	settings := configfile.LoadSettings(configStore)
	cmd.Println()
	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is complete.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
