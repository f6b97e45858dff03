// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/semdex"
	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/ai/rerank"
	"github.com/poiesic/semdex/core"
	"github.com/poiesic/semdex/ingestion"
	"github.com/poiesic/semdex/reembed"
	"github.com/poiesic/semdex/search"
	"github.com/urfave/cli/v2"
)

const resultTextLimit = 200

func main() {
	app := &cli.App{
		Name:  "semdex",
		Usage: "Semantic document indexing and retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory holding all databases",
				Value:   "./databases",
				EnvVars: []string{"SEMDEX_ROOT"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "create-db",
				Usage:     "Create a new database",
				ArgsUsage: "NAME",
				Action:    createDBCommand,
			},
			{
				Name:   "list-dbs",
				Usage:  "List all databases",
				Action: listDBsCommand,
			},
			{
				Name:      "delete-db",
				Usage:     "Delete a database and all its documents",
				ArgsUsage: "NAME",
				Action:    deleteDBCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Chunk, embed, and store a document",
				ArgsUsage: "DATABASE FILE",
				Action:    ingestCommand,
				Flags: append(embeddingFlags(),
					&cli.StringSliceFlag{
						Name:    "meta",
						Aliases: []string{"m"},
						Usage:   "Metadata attached to every chunk, as key=value (repeatable)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Token budget per chunk",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Tokens of overlap between adjacent chunks",
						Value: 50,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search a database for chunks similar to a query",
				ArgsUsage: "DATABASE QUERY",
				Action:    searchCommand,
				Flags: append(embeddingFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultTopK,
					},
					&cli.StringSliceFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Restrict results to chunks with matching metadata, as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank candidates with the Cohere rerank API (requires COHERE_API_KEY)",
					},
					&cli.BoolFlag{
						Name:  "rerank-local",
						Usage: "Rerank candidates with a local cross-encoder service",
					},
					&cli.BoolFlag{
						Name:  "rerank-bge",
						Usage: "Rerank candidates with a local BGE reranker service",
					},
					&cli.BoolFlag{
						Name:  "keyword-boost",
						Usage: "Boost results containing exact identifier terms from the query",
					},
				),
			},
			{
				Name:      "list-docs",
				Usage:     "List documents in a database with chunk counts",
				ArgsUsage: "DATABASE",
				Action:    listDocsCommand,
			},
			{
				Name:      "delete-doc",
				Usage:     "Delete all chunks of a document from a database",
				ArgsUsage: "DATABASE SOURCE",
				Action:    deleteDocCommand,
			},
			{
				Name:      "reembed",
				Usage:     "Regenerate embeddings for every chunk in a database",
				ArgsUsage: "DATABASE",
				Action:    reembedCommand,
				Flags: append(embeddingFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// embeddingFlags returns the flags shared by every command that calls the
// embedding service.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (OpenAI-compatible)",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
	}
}

// aiConfigFromFlags builds the AI configuration from command flags and the
// process environment. API keys are only ever read here, at the CLI edge.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingAPIKey(os.Getenv("OPENAI_API_KEY")),
		ai.WithCohereAPIKey(os.Getenv("COHERE_API_KEY")),
	)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return config, nil
}

func createDBCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("database name is required")
	}

	if err := semdex.CreateDatabase(c.String("root"), name); err != nil {
		return err
	}

	fmt.Printf("Created database %q\n", name)
	return nil
}

func listDBsCommand(c *cli.Context) error {
	names, err := semdex.ListDatabases(c.String("root"))
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No databases found")
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func deleteDBCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("database name is required")
	}

	if err := semdex.DeleteDatabase(c.String("root"), name); err != nil {
		return err
	}

	fmt.Printf("Deleted database %q\n", name)
	return nil
}

func ingestCommand(c *cli.Context) error {
	dbName := c.Args().Get(0)
	filePath := c.Args().Get(1)
	if dbName == "" || filePath == "" {
		return fmt.Errorf("usage: ingest DATABASE FILE")
	}

	meta, err := parseKeyValues(c.StringSlice("meta"))
	if err != nil {
		return fmt.Errorf("invalid --meta flag: %w", err)
	}

	config, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := semdex.OpenDatabase(c.String("root"), dbName, semdex.WithAIConfig(config))
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewPipeline(
		ingestion.WithTokenBudget(c.Int("chunk-size")),
		ingestion.WithOverlap(c.Int("chunk-overlap")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	started := time.Now()
	report, err := pipeline.IngestFile(context.Background(), filePath, meta)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %q: %d chunks from %d pages in %dms\n",
		report.Source, report.Chunks, report.Pages, time.Since(started).Milliseconds())
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: search DATABASE QUERY")
	}
	dbName := c.Args().Get(0)
	queryText := strings.Join(c.Args().Slice()[1:], " ")

	filter, err := parseKeyValues(c.StringSlice("filter"))
	if err != nil {
		return fmt.Errorf("invalid --filter flag: %w", err)
	}

	provider, err := rerankProvider(c)
	if err != nil {
		return err
	}

	config, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := semdex.OpenDatabase(c.String("root"), dbName, semdex.WithAIConfig(config))
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	started := time.Now()
	results, err := searcher.Search(context.Background(), search.Query{
		Text:         queryText,
		TopK:         c.Int("top-k"),
		Filter:       filter,
		RerankWith:   provider,
		KeywordBoost: c.Bool("keyword-boost"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	elapsed := time.Since(started)

	if len(results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	fmt.Printf("Found %d results in %dms\n\n", len(results), elapsed.Milliseconds())
	for i, result := range results {
		fmt.Printf("%d. [%.2f] %s (%s)\n", i+1, result.Score, result.Chunk.Source, chunkLocation(result))
		fmt.Printf("   %s\n\n", truncateText(result.Chunk.Text, resultTextLimit))
	}
	return nil
}

func listDocsCommand(c *cli.Context) error {
	dbName := c.Args().First()
	if dbName == "" {
		return fmt.Errorf("database name is required")
	}

	db, err := semdex.OpenDatabase(c.String("root"), dbName)
	if err != nil {
		return err
	}
	defer db.Close()

	sources, err := db.ChunkRepository().ListSources(context.Background())
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No documents found")
		return nil
	}

	for _, stat := range sources {
		fmt.Printf("%s (%d chunks)\n", stat.Source, stat.Chunks)
	}
	return nil
}

func deleteDocCommand(c *cli.Context) error {
	dbName := c.Args().Get(0)
	source := c.Args().Get(1)
	if dbName == "" || source == "" {
		return fmt.Errorf("usage: delete-doc DATABASE SOURCE")
	}

	db, err := semdex.OpenDatabase(c.String("root"), dbName)
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.ChunkRepository().DeleteBySource(context.Background(), source)
	if err != nil {
		return err
	}

	if deleted == 0 {
		fmt.Printf("No chunks found for %q\n", source)
		return nil
	}

	fmt.Printf("Deleted %d chunks of %q\n", deleted, source)
	return nil
}

func reembedCommand(c *cli.Context) error {
	dbName := c.Args().First()
	if dbName == "" {
		return fmt.Errorf("database name is required")
	}

	config, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := semdex.OpenDatabase(c.String("root"), dbName, semdex.WithAIConfig(config))
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbName)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reembedder := reembed.NewReembedder(db.ChunkRepository(), db.Embedder(), reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

// rerankProvider maps the mutually exclusive rerank flags to a provider
// discriminator. Empty string means no reranking.
func rerankProvider(c *cli.Context) (string, error) {
	var providers []string
	if c.Bool("rerank") {
		providers = append(providers, rerank.ProviderCohere)
	}
	if c.Bool("rerank-local") {
		providers = append(providers, rerank.ProviderLocal)
	}
	if c.Bool("rerank-bge") {
		providers = append(providers, rerank.ProviderBGE)
	}

	if len(providers) > 1 {
		return "", fmt.Errorf("at most one of --rerank, --rerank-local, --rerank-bge may be set")
	}
	if len(providers) == 0 {
		return "", nil
	}
	return providers[0], nil
}

// parseKeyValues parses repeated key=value flags into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		result[key] = value
	}
	return result, nil
}

// chunkLocation formats the page or section of a result for display.
func chunkLocation(result *core.SearchResult) string {
	if result.Chunk.Page > 0 {
		return fmt.Sprintf("page %d", result.Chunk.Page)
	}
	if result.Chunk.Section != "" {
		return result.Chunk.Section
	}
	return fmt.Sprintf("chunk %d", result.Chunk.ChunkIndex)
}

func truncateText(text string, limit int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
