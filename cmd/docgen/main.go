package main

import (
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/tamilqa/tamilqa/internal/cli"
)

func main() {
	out := "./docs/reference"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		log.Fatal(err)
	}

	rootCmd := cli.NewRootCmd()
	rootCmd.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(rootCmd, out); err != nil {
		log.Fatal(err)
	}
}
