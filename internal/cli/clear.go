package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/codectx/codectx/internal/snapshot"
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Drop a codebase's index",
	Long: `Clear drops the codebase's collection from the vector store and removes
its change-detection manifest, returning it to an unindexed state. The next
'codectx index' run will perform a full reindex.

Examples:
  # Clear the current directory's index
  codectx clear

  # Clear a specific directory's index
  codectx clear /path/to/project
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	rootDir, err := targetPath(args)
	if err != nil {
		return err
	}

	core, closer, err := buildCore(rootDir)
	if err != nil {
		return err
	}
	defer closer()

	if err := core.ClearIndex(context.Background(), rootDir); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	if err := recordCleared(rootDir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to update indexing snapshot: %v\n", err)
	}

	fmt.Println("✓ Index cleared")
	return nil
}

// recordCleared marks path as unknown in the process-global snapshot.
func recordCleared(path string) error {
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
	snap.MarkUnknown(absPath)
	return snapshot.Save(dataDir, snap, time.Now())
}
