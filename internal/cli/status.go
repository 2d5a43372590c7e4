package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/codectx/codectx/internal/snapshot"
	"github.com/spf13/cobra"
)

var statusJSONFlag bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show whether a codebase is indexed",
	Long: `Status reports whether the given codebase (default: current directory)
has a non-empty index, along with the process-global snapshot's view of it
(indexed, indexing with last-reported progress, or unknown).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSONFlag, "json", false, "Output as JSON")
}

type statusOutput struct {
	Path       string  `json:"path"`
	HasIndex   bool    `json:"hasIndex"`
	State      string  `json:"state"`
	Percentage float64 `json:"percentage,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	rootDir, err := targetPath(args)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(rootDir)
	if err != nil {
		return err
	}

	core, closer, err := buildCore(rootDir)
	if err != nil {
		return err
	}
	defer closer()

	hasIndex, err := core.HasIndex(context.Background(), rootDir)
	if err != nil {
		return fmt.Errorf("failed to check index status: %w", err)
	}

	out := statusOutput{Path: absPath, HasIndex: hasIndex, State: "unknown"}

	dataDir, err := manifestsDir()
	if err != nil {
		return err
	}
	snap, err := snapshot.Load(dataDir)
	if err != nil {
		return err
	}
	for _, p := range snap.IndexedCodebases {
		if p == absPath {
			out.State = "indexed"
		}
	}
	for _, entry := range snap.IndexingCodebases {
		if entry.Path == absPath {
			out.State = "indexing"
			out.Percentage = entry.Percentage
		}
	}

	if statusJSONFlag {
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	fmt.Printf("Path:      %s\n", out.Path)
	fmt.Printf("Has index: %t\n", out.HasIndex)
	if out.State == "indexing" {
		fmt.Printf("State:     indexing (%.0f%%)\n", out.Percentage)
	} else {
		fmt.Printf("State:     %s\n", out.State)
	}

	return nil
}
