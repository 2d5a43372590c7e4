// Command codectx-embed is the local embedding daemon: an embedded Python
// interpreter running a sentence-transformers model behind the small HTTP
// contract internal/embedding's local provider expects. embedding.New spawns
// this binary by name ("codectx-embed" on PATH) the first time a Provider
// is asked to embed something.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/codectx/codectx/internal/embed/server"

	"github.com/kluctl/go-embed-python/embed_util"
	"github.com/kluctl/go-embed-python/python"
)

const embedPort = 8411

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get user home directory: %v", err)
	}
	codectxDir := filepath.Join(homeDir, ".codectx")

	// Embedded Python runtime lives in a persistent cache directory so it
	// survives across runs instead of being rebuilt from /tmp each time.
	pythonRuntimeDir := filepath.Join(codectxDir, "embed", "runtime")
	ep, err := python.NewEmbeddedPythonWithTmpDir(pythonRuntimeDir, true)
	if err != nil {
		log.Fatalf("Failed to create embedded Python: %v", err)
	}

	pipCacheDir := filepath.Join(codectxDir, "embed", "packages")
	embeddedFiles, err := embed_util.NewEmbeddedFilesWithTmpDir(server.Data, pipCacheDir, true)
	if err != nil {
		log.Fatalf("Failed to load embedded files: %v", err)
	}
	ep.AddPythonPath(embeddedFiles.GetExtractedPath())

	tmpDir, err := os.MkdirTemp("", "codectx-embed-*")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	scriptPath := filepath.Join(tmpDir, "embedding_service.py")
	if err := os.WriteFile(scriptPath, []byte(server.EmbeddingScript), 0644); err != nil {
		log.Fatalf("Failed to write script: %v", err)
	}

	cmd, err := ep.PythonCmd(scriptPath)
	if err != nil {
		log.Fatalf("Failed to create Python command: %v", err)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start Python server: %v", err)
	}

	log.Printf("Starting embedding service on http://127.0.0.1:%d\n", embedPort)

	if err := waitForReady(ctx); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		log.Fatalf("Service failed to start: %v", err)
	}

	log.Println("Service ready")

	<-ctx.Done()
	log.Println("Shutting down...")
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func waitForReady(ctx context.Context) error {
	client := &http.Client{Timeout: 2 * time.Second}
	timeout := 2 * time.Minute // first run may need to download the model

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	url := fmt.Sprintf("http://127.0.0.1:%d/", embedPort)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("timeout after %v waiting for service", timeout)
			}

			resp, err := client.Get(url)
			if err == nil && resp.StatusCode == 200 {
				resp.Body.Close()
				return nil
			}
			if resp != nil {
				resp.Body.Close()
			}
		}
	}
}
