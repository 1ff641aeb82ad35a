package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <folder>",
	Short: "Index all images in a folder",
	Long: `Embed every recognized image file in the folder and store the vectors.

Indexing a folder replaces the store's previous contents entirely; records
from an earlier run are abandoned, not merged. Files that fail to decode or
embed are skipped and reported, and never abort the batch. The store is saved
to disk when the run completes.

Examples:
  imgsim index ./photos
  imgsim index ./photos --db photos.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	session, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Open(); err != nil {
		return err
	}

	fmt.Printf("Indexing %s...\n", dir)

	var bar *progressbar.ProgressBar
	progress := func(done, total int, file string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	start := time.Now()
	report, err := session.IndexFolder(dir, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if report.FilesFound == 0 {
		fmt.Println("No image files found; nothing to index.")
		return nil
	}

	fmt.Printf("\nIndexing complete in %s:\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Images indexed: %d\n", report.Indexed)
	fmt.Printf("  Files skipped:  %d\n", report.Failed)

	if len(report.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nStore saved to: %s\n", cfg.Store.Path)
	return nil
}
