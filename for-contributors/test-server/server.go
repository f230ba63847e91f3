package main

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

// Store keeps the conversions served since the last clear.
type Store struct {
	history []Conversion
	mu      sync.RWMutex
}

type Conversion struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Known  bool   `json:"known"`
}

// TestServer is a stand-in for the converter site. It renders exactly the
// expected text of every positive and UI scenario and echoes anything else.
type TestServer struct {
	store *Store
	table map[string]string
	delay time.Duration
	mux   *http.ServeMux
}

// NewTestServer creates a new instance of TestServer
func NewTestServer(c *catalog.Catalog, delay time.Duration) *TestServer {
	s := &TestServer{
		store: &Store{},
		table: map[string]string{},
		delay: delay,
		mux:   http.NewServeMux(),
	}
	for _, sc := range c.Positive {
		s.table[sc.Input] = sc.Expected
	}
	if c.UI != nil {
		s.table[c.UI.Input] = c.UI.Expected
	}

	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("POST /api/convert", s.handleConvert)
	s.mux.HandleFunc("GET /_history", s.handleHistory)
	s.mux.HandleFunc("POST /_clear", s.handleClear)
	return s
}

// Known is the number of inputs with a scripted conversion.
func (s *TestServer) Known() int { return len(s.table) }

func (s *TestServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 %s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

// Convert maps input to its scripted output, or echoes it.
func (s *TestServer) Convert(input string) Conversion {
	out, ok := s.table[input]
	if !ok {
		out = input
	}
	return Conversion{Input: input, Output: out, Known: ok}
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>tamilqa stub converter</title></head>
<body>
<textarea id="input" rows="6" cols="60"></textarea>
<div id="output" dir="auto" style="font-family: 'Latha', sans-serif; min-height: 1em"></div>
<script>
const input = document.getElementById("input");
const output = document.getElementById("output");
const delay = {{.DelayMS}};
let seq = 0;
input.addEventListener("input", () => {
  const mine = ++seq;
  const text = input.value;
  setTimeout(async () => {
    const resp = await fetch("/api/convert", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({text}),
    });
    const data = await resp.json();
    if (mine === seq) output.textContent = data.output;
  }, delay);
});
</script>
</body>
</html>
`))

func (s *TestServer) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, map[string]int64{"DelayMS": s.delay.Milliseconds()}); err != nil {
		log.Printf("❌ Error rendering page: %v", err)
	}
}

func (s *TestServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	conv := s.Convert(req.Text)
	s.store.mu.Lock()
	s.store.history = append(s.store.history, conv)
	s.store.mu.Unlock()

	log.Printf("📤 %q -> %q (known: %t)", conv.Input, conv.Output, conv.Known)
	writeJSON(w, conv)
}

func (s *TestServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.store.mu.RLock()
	history := append([]Conversion{}, s.store.history...)
	s.store.mu.RUnlock()
	writeJSON(w, history)
}

func (s *TestServer) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	s.store.history = nil
	s.store.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
