package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finance-rag",
	Short: "A CLI for managing the financial question answering services",
	Long:  `Finance RAG answers financial questions by combining live quotes, news retrieval, a knowledge graph and semantic search.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
