package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the server on")
	delay := flag.Duration("delay", 300*time.Millisecond, "Render delay after each input event")
	flag.Parse()

	c, err := catalog.Default()
	if err != nil {
		log.Fatalf("❌ Failed to load built-in catalog: %v", err)
	}
	server := NewTestServer(c, *delay)

	log.Printf("🚀 Starting stub converter on port %d...", *port)
	log.Printf("📝 %d known conversions, render delay %s", server.Known(), *delay)
	log.Printf("👉 tamilqa run --url http://localhost:%d/", *port)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), server); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
