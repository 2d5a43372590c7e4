package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/codectx/codectx/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	quietFlag bool
	forceFlag bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a codebase for semantic search",
	Long: `Index scans a codebase, splits changed files into chunks, embeds them,
and writes the result to the configured vector store.

Only files that changed since the last run are reprocessed, unless --force
is given to reindex everything from scratch.

Examples:
  # Index the current directory
  codectx index

  # Force a full reindex
  codectx index --force

  # Index a specific directory, with progress bars disabled
  codectx index /path/to/project --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and print only a one-line summary")
	indexCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Reindex every file, ignoring the change-detection manifest")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling indexing...")
		cancel()
	}()

	rootDir, err := targetPath(args)
	if err != nil {
		return err
	}

	core, closer, err := buildCore(rootDir)
	if err != nil {
		return err
	}
	defer closer()

	reporter := NewCLIProgressReporter(quietFlag)

	stats, err := core.IndexCodebase(ctx, rootDir, forceFlag, reporter.Report)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := recordIndexed(rootDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to update indexing snapshot: %v\n", err)
	}

	if !quietFlag {
		fmt.Printf("\n✓ Indexing complete:\n")
		fmt.Printf("  Files: %s added, %s modified, %s removed\n",
			formatNumber(stats.FilesAdded), formatNumber(stats.FilesModified), formatNumber(stats.FilesRemoved))
		fmt.Printf("  Chunks written: %s\n", formatNumber(stats.ChunksWritten))
		fmt.Printf("  Status: %s\n", stats.Status)
	} else {
		fmt.Printf("Indexing complete: %s chunks (%s)\n", formatNumber(stats.ChunksWritten), stats.Status)
	}

	return nil
}

// recordIndexed marks path as indexed in the process-global snapshot, used
// by `codectx status` and the MCP get_indexing_status/has_index tools.
func recordIndexed(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dataDir, err := manifestsDir()
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(dataDir)
	if err != nil {
		return err
	}
	snap.MarkIndexed(absPath)
	return snapshot.Save(dataDir, snap, time.Now())
}

// targetPath resolves the codebase root from the optional positional
// argument, defaulting to the current working directory.
func targetPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
