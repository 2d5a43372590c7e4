package server

// EmbeddingScript is the Python entry point run inside the embedded
// interpreter. It serves the HTTP contract internal/embedding's local
// provider speaks: GET / for a health check, POST /embed taking
// {"texts": [...], "mode": "query"|"passage"} and returning
// {"embeddings": [[...]], "dimensions": N}.
const EmbeddingScript = `
import json
import sys
from http.server import BaseHTTPRequestHandler, ThreadingHTTPServer

from sentence_transformers import SentenceTransformer

MODEL_NAME = "sentence-transformers/all-MiniLM-L6-v2"
PORT = 8411

print(f"Loading model {MODEL_NAME}...", file=sys.stderr)
model = SentenceTransformer(MODEL_NAME)
dimensions = model.get_sentence_embedding_dimension()
print(f"Model ready, dimensions={dimensions}", file=sys.stderr)

QUERY_PREFIX = "query: "
PASSAGE_PREFIX = "passage: "


class Handler(BaseHTTPRequestHandler):
    def _send_json(self, status, payload):
        body = json.dumps(payload).encode("utf-8")
        self.send_response(status)
        self.send_header("Content-Type", "application/json")
        self.send_header("Content-Length", str(len(body)))
        self.end_headers()
        self.wfile.write(body)

    def do_GET(self):
        if self.path == "/":
            self._send_json(200, {"status": "ok", "dimensions": dimensions})
        else:
            self._send_json(404, {"error": "not found"})

    def do_POST(self):
        if self.path != "/embed":
            self._send_json(404, {"error": "not found"})
            return

        length = int(self.headers.get("Content-Length", 0))
        raw = self.rfile.read(length)
        try:
            req = json.loads(raw)
        except json.JSONDecodeError as exc:
            self._send_json(400, {"error": f"invalid json: {exc}"})
            return

        texts = req.get("texts", [])
        mode = req.get("mode", "passage")
        prefix = QUERY_PREFIX if mode == "query" else PASSAGE_PREFIX
        prefixed = [prefix + t for t in texts]

        embeddings = model.encode(prefixed, normalize_embeddings=True)
        self._send_json(200, {
            "embeddings": [e.tolist() for e in embeddings],
            "dimensions": dimensions,
        })

    def log_message(self, fmt, *args):
        print(f"{self.address_string()} - {fmt % args}", file=sys.stderr)


if __name__ == "__main__":
    server = ThreadingHTTPServer(("127.0.0.1", PORT), Handler)
    print(f"Listening on http://127.0.0.1:{PORT}", file=sys.stderr)
    server.serve_forever()
`
