// Command codectx-mcp serves the codectx tool surface (index_codebase,
// search_code, clear_index, get_indexing_status, has_index) over MCP on
// stdio, for use from an editor or agent.
package main

import (
	"context"
	"log"

	"github.com/codectx/codectx/internal/mcpserver"
)

func main() {
	srv := mcpserver.New()
	if err := srv.Serve(context.Background()); err != nil {
		log.Fatalf("codectx-mcp: %v", err)
	}
}
