// Command ingest builds the knowledge index the assistant searches when answering
// general questions.
package main

import (
	"clinic-connector/internal/config"
	"clinic-connector/internal/infra/knowledge"
	"clinic-connector/internal/infra/logger"
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	source := flag.String("source", "knowledge_base.txt", "Path to the corpus text file")
	output := flag.String("index", cfg.KnowledgeIndexPath, "Directory to write the bleve index to")
	chunkSize := flag.Int("chunk-size", knowledge.DefaultChunkSize, "Maximum passage length in characters")
	overlap := flag.Int("overlap", knowledge.DefaultChunkOverlap, "Characters shared by consecutive passages")
	force := flag.Bool("force", false, "Replace an existing index")
	flag.Parse()

	log := logger.NewLogger(context.Background(), cfg.LogLevel, false)

	text, err := os.ReadFile(*source)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to read corpus: %v", err))
	}

	chunks := knowledge.Chunk(string(text), *chunkSize, *overlap)
	if len(chunks) == 0 {
		log.Fatal(fmt.Sprintf("Corpus %s is empty", *source))
	}

	count, err := knowledge.BuildIndex(*output, chunks, *force)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to build index: %v", err))
	}

	log.Info(fmt.Sprintf("Indexed %d passages from %s into %s", count, *source, *output))
}
