package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/codectx/codectx/internal/indexcore"
	"github.com/codectx/codectx/internal/snapshot"
	"github.com/codectx/codectx/internal/vectorstore"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *Server) registerTools() {
	addIndexCodebaseTool(s.mcp, s.registry)
	addSearchCodeTool(s.mcp, s.registry)
	addClearIndexTool(s.mcp, s.registry)
	addGetIndexingStatusTool(s.mcp, s.registry)
	addHasIndexTool(s.mcp, s.registry)
}

// addIndexCodebaseTool registers index_codebase(path, force,
// ignorePatterns). Only path and force are applied: ignorePatterns is
// declared but not read, so exclusions come from project configuration.
// splitter and customExtensions are not declared.
func addIndexCodebaseTool(s *server.MCPServer, registry *coreRegistry) {
	tool := mcp.NewTool(
		"index_codebase",
		mcp.WithDescription("Index a codebase's source files into the semantic search index. Only changed files are reprocessed unless force is set."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the codebase root")),
		mcp.WithBoolean("force", mcp.Description("Reindex every file, ignoring the change-detection manifest")),
		mcp.WithArray("ignorePatterns", mcp.Description("Accepted but not applied; exclusions come from project configuration")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		force, _ := args["force"].(bool)

		core, err := registry.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		stats, err := core.IndexCodebase(ctx, path, force, nil)
		if err != nil {
			return toolErrorResult(err)
		}

		if err := recordIndexed(path); err != nil {
			// Indexing itself succeeded; losing the snapshot update is
			// surfaced as an advisory, not a tool failure.
			fmt.Printf("warning: failed to update indexing snapshot: %v\n", err)
		}

		return jsonResult(stats)
	})
}

// addSearchCodeTool registers search_code(path, query, limit,
// extensionFilter, enableRanking).
func addSearchCodeTool(s *server.MCPServer, registry *coreRegistry) {
	tool := mcp.NewTool(
		"search_code",
		mcp.WithDescription("Semantically search an indexed codebase and return the most relevant chunks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the codebase root")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural language search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return (default: 10)")),
		mcp.WithString("extensionFilter", mcp.Description("Restrict results to files with this extension, e.g. '.go'")),
		mcp.WithBoolean("enableRanking", mcp.Description("Blend recency/import/term-overlap into vector similarity (default: true)")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, _ := args["path"].(string)
		query, _ := args["query"].(string)
		if path == "" || query == "" {
			return mcp.NewToolResultError("path and query parameters are required"), nil
		}

		limit := 10
		if l, ok := args["limit"].(float64); ok && l > 0 {
			limit = int(l)
		}
		enableRanking := true
		if v, ok := args["enableRanking"].(bool); ok {
			enableRanking = v
		}

		var filterExpr *vectorstore.Filter
		if ext, ok := args["extensionFilter"].(string); ok && ext != "" {
			filterExpr = vectorstore.Eq("fileExtension", ext)
		}

		core, err := registry.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results, err := core.SemanticSearch(ctx, path, query, limit, 0, filterExpr, enableRanking)
		if err != nil {
			return toolErrorResult(err)
		}

		return jsonResult(results)
	})
}

// addClearIndexTool registers clear_index(path).
func addClearIndexTool(s *server.MCPServer, registry *coreRegistry) {
	tool := mcp.NewTool(
		"clear_index",
		mcp.WithDescription("Drop a codebase's index, returning it to an unindexed state."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the codebase root")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		core, err := registry.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := core.ClearIndex(ctx, path); err != nil {
			return toolErrorResult(err)
		}

		if err := recordCleared(path); err != nil {
			fmt.Printf("warning: failed to update indexing snapshot: %v\n", err)
		}

		return mcp.NewToolResultText(`{"cleared":true}`), nil
	})
}

// addGetIndexingStatusTool registers get_indexing_status(path).
func addGetIndexingStatusTool(s *server.MCPServer, registry *coreRegistry) {
	tool := mcp.NewTool(
		"get_indexing_status",
		mcp.WithDescription("Report a codebase's indexing state: indexed, indexing (with progress), or unknown."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the codebase root")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dataDir, err := manifestsDir()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		snap, err := snapshot.Load(dataDir)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		status := struct {
			Path       string  `json:"path"`
			State      string  `json:"state"`
			Percentage float64 `json:"percentage,omitempty"`
		}{Path: absPath, State: "unknown"}

		for _, p := range snap.IndexedCodebases {
			if p == absPath {
				status.State = "indexed"
			}
		}
		for _, entry := range snap.IndexingCodebases {
			if entry.Path == absPath {
				status.State = "indexing"
				status.Percentage = entry.Percentage
			}
		}

		return jsonResult(status)
	})
}

// addHasIndexTool registers has_index(path).
func addHasIndexTool(s *server.MCPServer, registry *coreRegistry) {
	tool := mcp.NewTool(
		"has_index",
		mcp.WithDescription("Report whether a codebase's index exists and holds at least one document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the codebase root")),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		core, err := registry.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		has, err := core.HasIndex(ctx, path)
		if err != nil {
			return toolErrorResult(err)
		}

		return mcp.NewToolResultText(fmt.Sprintf(`{"hasIndex":%t}`, has)), nil
	})
}

// toolErrorResult maps an indexcore error to the MCP tool-error convention:
// NotIndexed carries a directive to call index_codebase first, per spec;
// every other kind is surfaced as a plain tool error (not a protocol error),
// so a failed index/search/clear doesn't crash the MCP session.
func toolErrorResult(err error) (*mcp.CallToolResult, error) {
	if indexcore.IsNotIndexed(err) {
		return mcp.NewToolResultError("codebase is not indexed; call index_codebase first"), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

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
