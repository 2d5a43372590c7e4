package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchPath           string
	searchLimit          int
	searchMinScore       float64
	searchDisableRanking bool
	searchJSON           bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search an indexed codebase semantically",
	Long: `Search embeds the query, finds the closest chunks in the configured
vector store, and blends in recency, import-graph centrality, and term
overlap unless --no-ranking is given.

Examples:
  # Search the current directory's index
  codectx search "retry with backoff"

  # Limit results and disable ranking blend
  codectx search "parse config" --limit 5 --no-ranking
`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchPath, "path", "", "Codebase root to search (default: current directory)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "Discard results below this similarity score")
	searchCmd.Flags().BoolVar(&searchDisableRanking, "no-ranking", false, "Return raw vector-similarity order, skipping the ranking blend")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	rootDir := searchPath
	if rootDir == "" {
		var err error
		rootDir, err = targetPath(nil)
		if err != nil {
			return err
		}
	}

	core, closer, err := buildCore(rootDir)
	if err != nil {
		return err
	}
	defer closer()

	ctx := context.Background()
	results, err := core.SemanticSearch(ctx, rootDir, query, searchLimit, searchMinScore, nil, !searchDisableRanking)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s:%d-%d  (score %.3f)\n", i+1, r.RelativePath, r.StartLine, r.EndLine, r.Score)
		fmt.Println(indentLines(r.Content, "   "))
		fmt.Println()
	}

	return nil
}

// indentLines prefixes every line of s with prefix, for readable snippet display.
func indentLines(s, prefix string) string {
	out := prefix
	for _, c := range s {
		out += string(c)
		if c == '\n' {
			out += prefix
		}
	}
	return out
}
