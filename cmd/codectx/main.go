// Command codectx indexes a local codebase into a vector store and serves
// semantic search over it from the command line.
package main

import (
	"github.com/codectx/codectx/internal/cli"
)

func main() {
	cli.Execute()
}
