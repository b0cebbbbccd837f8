package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/logger"
)

var proposeWatch bool

// settleDelay gives a file time to finish writing before the inbox is
// rescanned after a filesystem event.
const settleDelay = 2 * time.Second

var proposeCmd = &cobra.Command{
	Use:   "propose [inbox-dir]",
	Short: "Catalogue new documents from an inbox directory",
	Long: `Scans a local directory for PDF files, derives each file's content
identifier, uploads new documents to the tagging folder and appends a
draft catalog row. Documents already catalogued are skipped, so the
same inbox can be proposed repeatedly.

With --watch, keeps running and proposes documents as they appear.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPropose,
}

func init() {
	proposeCmd.Flags().BoolVarP(&proposeWatch, "watch", "w", false, "watch the inbox and propose new files as they appear")
	rootCmd.AddCommand(proposeCmd)
}

func runPropose(cmd *cobra.Command, args []string) error {
	if proposerService == nil {
		return errors.New("proposer service not configured")
	}

	dir := appSettings.InboxDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no inbox directory given and inbox.dir is not configured")
	}

	if err := proposeOnce(cmd, dir); err != nil {
		return err
	}
	if !proposeWatch {
		return nil
	}
	return watchInbox(cmd, dir)
}

// proposeOnce scans the inbox a single time and prints the results.
func proposeOnce(cmd *cobra.Command, dir string) error {
	results, err := proposerService.Propose(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("propose failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Printf("No PDF files in %s.\n", dir)
		return nil
	}
	printRowResults(cmd, results)
	return failOnRowErrors(results)
}

// watchInbox blocks, rescanning the inbox whenever a PDF is created or
// renamed into it, until interrupted.
func watchInbox(cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for new documents (ctrl-c to stop)...\n", dir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	// Coalesce bursts of events into one rescan.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
				continue
			}
			logger.Debug("Inbox event: %s", event)
			pending = time.After(settleDelay)

		case <-pending:
			pending = nil
			if err := proposeOnce(cmd, dir); err != nil {
				logger.Warn("Rescan failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-stop:
			cmd.Println("Stopping watcher.")
			return nil
		}
	}
}
