// Package cli provides the librarian command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/librarian-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/drive"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/google"
	qdrantstore "github.com/custodia-labs/librarian-cli/internal/adapters/driven/qdrant"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/sheets"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/core/services"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// version is the CLI version, overridable at build time via -ldflags.
var version = "dev"

// Services consumed by the commands. Wired by Execute; tests inject
// fakes directly.
var (
	validatorService  driving.Validator
	reconcilerService driving.Reconciler
	promoterService   driving.Promoter
	deleterService    driving.Deleter
	repairerService   driving.Repairer
	proposerService   driving.Proposer
	reportStore       driven.ReportStore
	eventLog          driven.EventLog
	configStore       driven.ConfigStore
	appSettings       configfile.Settings
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Keep a document library consistent across Sheets, Drive and Qdrant",
	Long: `Librarian reconciles a document library spread across three stores:
a Google Sheet catalog, a Google Drive file store and a Qdrant vector
index. It reports drift between them and drives the document lifecycle
(propose, promote, remove, repair).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the services and runs the root command.
func Execute() {
	if err := wire(context.Background()); err != nil {
		// Commands that need the missing services fail with their own
		// message; config and version still work.
		logger.Debug("Wiring incomplete: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds every service from configuration. Local stores (config,
// reports) come up first so partial configuration still leaves the
// config and report commands usable.
func wire(ctx context.Context) error {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store
	appSettings = configfile.LoadSettings(store)

	db, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening local database: %w", err)
	}
	reportStore = db.ReportStore()
	eventLog = db.EventLog()

	if err := appSettings.Validate(); err != nil {
		return err
	}

	sheetsSvc, driveSvc, err := google.NewServices(ctx, appSettings.CredentialsFile, appSettings.AccessToken)
	if err != nil {
		return err
	}
	qdrantClient, err := qdrantstore.NewClient(appSettings.QdrantURL, appSettings.QdrantAPIKey)
	if err != nil {
		return err
	}

	qps := float64(appSettings.GoogleRateLimitQPS)
	sheet := sheets.NewSheetStore(sheetsSvc,
		google.NewRateLimiterForQPS(google.ServiceSheets, qps),
		appSettings.SpreadsheetID, appSettings.SheetName)
	files := drive.NewFileStore(driveSvc,
		google.NewRateLimiterForQPS(google.ServiceDrive, qps),
		appSettings.TaggingFolderID, appSettings.LiveFolderID)
	vectors := qdrantstore.NewVectorStore(qdrantClient, appSettings.QdrantCollection)

	validatorService = services.NewValidationService(sheet)
	reconcilerService = services.NewReconcilerService(sheet, files, vectors, reportStore)
	// No embedding pipeline is wired here, so promotion requires rows to
	// be indexed already; it reports the gap per row instead of failing.
	promoterService = services.NewPromotionService(sheet, files, vectors, nil, eventLog)
	deleterService = services.NewDeletionService(sheet, files, vectors, eventLog)
	repairerService = services.NewRepairService(sheet, vectors, eventLog)
	proposerService = services.NewProposalService(sheet, files, eventLog)
	return nil
}
