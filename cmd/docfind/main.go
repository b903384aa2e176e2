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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docfind"
	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/evals"
	"github.com/poiesic/docfind/generation"
	"github.com/poiesic/docfind/ingest"
	"github.com/poiesic/docfind/reembed"
)

func main() {
	app := &cli.App{
		Name:  "docfind",
		Usage: "Hybrid retrieval over product documentation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./docfind_db",
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "OpenAI-compatible service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "nomic-embed-text",
			},
			&cli.StringFlag{
				Name:  "generator-model",
				Usage: "Generation model name",
				Value: "qwen2.5:3b",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest markdown documentation into the store",
				ArgsUsage: "<docs-dir>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in characters",
						Value: ingest.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: ingest.DefaultChunkOverlap,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the ingested documentation",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "Retrieval method (hybrid, keyword, vector)",
						Value: "hybrid",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question, or start an interactive session with no arguments",
				ArgsUsage: "[question]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"k"},
						Usage:   "Number of context documents to retrieve",
						Value:   generation.DefaultResultCount,
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Compare retrieval precision across methods with an LLM judge",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"k"},
						Usage:   "Number of documents retrieved per question",
						Value:   evals.DefaultResultCount,
					},
					&cli.StringFlag{
						Name:  "questions",
						Usage: "File with one evaluation question per line (defaults to built-in set)",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for all stored chunks",
				Action: reembedCommand,
				Flags: []cli.Flag{
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
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*docfind.Database, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := docfind.NewDatabase(c.String("db"), docfind.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("docs directory is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingest.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	stored, err := pipeline.IngestDirectory(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %s: %d chunks stored\n", dir, stored)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	retriever, err := db.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	ctx := context.Background()
	k := c.Int("results")

	var docs []*core.Document
	switch method := c.String("method"); method {
	case "hybrid":
		docs, err = retriever.HybridSearch(ctx, query, k)
	case "keyword":
		docs, err = retriever.KeywordSearch(ctx, query, k)
	case "vector":
		docs, err = retriever.VectorSearch(ctx, query, k)
	default:
		return fmt.Errorf("unknown method %q: must be hybrid, keyword, or vector", method)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d results\n", len(docs))
	for i, doc := range docs {
		route := doc.Route
		if route == "" {
			route = "N/A"
		}
		fmt.Printf("%d: %s (%s) [%s %d/%d]\n", i+1, doc.Title, route,
			doc.SourceFile, doc.ChunkIndex+1, doc.TotalChunks)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	answerer, err := db.NewAnswerer(generation.WithResultCount(c.Int("results")))
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	ctx := context.Background()
	if question := strings.Join(c.Args().Slice(), " "); question != "" {
		return printAnswer(ctx, answerer, question)
	}

	// Interactive session
	fmt.Println("Documentation Q&A (type 'quit' to exit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nQuestion: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			return nil
		case "":
			continue
		}
		if err := printAnswer(ctx, answerer, question); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func printAnswer(ctx context.Context, answerer *generation.Answerer, question string) error {
	result, err := answerer.Answer(ctx, question)
	if err != nil {
		return err
	}

	fmt.Printf("\nAnswer: %s\n\nSources:\n", result.Text)
	for _, src := range result.Sources {
		fmt.Printf("  - %s (%s)\n", src.Title, src.Route)
	}
	return nil
}

func evalCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []evals.Option{evals.WithResultCount(c.Int("results"))}
	if path := c.String("questions"); path != "" {
		questions, err := readQuestionsFile(path)
		if err != nil {
			return err
		}
		opts = append(opts, evals.WithQuestions(questions))
	}

	evaluator, err := db.NewEvaluator(opts...)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	report, err := evaluator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Println("PRECISION EVALUATION")
	for _, r := range report.Results {
		fmt.Printf("%s\n  Hybrid: %.0f%% | Vector: %.0f%% | Keyword: %.0f%%\n",
			r.Question, r.Hybrid*100, r.Vector*100, r.Keyword*100)
	}
	fmt.Println("\nAVERAGE PRECISION")
	fmt.Printf("  Hybrid  %.0f%%\n", report.AverageHybrid*100)
	fmt.Printf("  Vector  %.0f%%\n", report.AverageVector*100)
	fmt.Printf("  Keyword %.0f%%\n", report.AverageKeyword*100)
	fmt.Printf("\nHybrid vs Vector:  %+.0f%%\n", (report.AverageHybrid-report.AverageVector)*100)
	fmt.Printf("Hybrid vs Keyword: %+.0f%%\n", (report.AverageHybrid-report.AverageKeyword)*100)
	return nil
}

func reembedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := db.NewReembedder(config, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("re-embedding failed: %w", err)
	}
	return nil
}

func readQuestionsFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var questions []string
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			questions = append(questions, line)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("questions file %s is empty", path)
	}
	return questions, nil
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
