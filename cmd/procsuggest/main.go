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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/poiesic/procsuggest"
	"github.com/poiesic/procsuggest/ai"
	"github.com/poiesic/procsuggest/config"
	"github.com/poiesic/procsuggest/ranking"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "procsuggest",
		Usage:     "Suggest administrative procedures for citizen queries",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				EnvVars: []string{config.EnvLogLevel},
				Value:   config.DefaultLogLevel,
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "Path to the procedure catalog (CSV or TSV)",
			},
			&cli.StringFlag{
				Name:  "ranking",
				Usage: "Path to the ranking label file",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "BadgerDB directory for cached catalog embeddings",
			},
			&cli.StringFlag{
				Name:  "model-dir",
				Usage: "Directory of the fine-tuned ONNX model",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host URL serving both the embedding and generator models",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Fallback embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Fallback embedding model name",
			},
			&cli.StringFlag{
				Name:  "link-base-url",
				Usage: "Base URL for generated procedure links",
			},
			&cli.BoolFlag{
				Name:  "enrich-links",
				Usage: "Ask the generator model for official procedure links",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "suggest",
				Usage:     "Print suggestions for a query as JSON",
				ArgsUsage: "<query>",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of suggestions",
					},
					&cli.Float64Flag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Usage:   "Minimum cosine similarity for embedding matches",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Abort the request after this long",
						Value: 2 * time.Minute,
					},
				},
			},
			{
				Name:   "warm",
				Usage:  "Load the model and embed the catalog into the cache",
				Action: warmCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Discard the active model's cached vectors and embed the whole catalog",
					},
				},
			},
			{
				Name:      "labels",
				Usage:     "Show ranking label statistics or the labels for a query",
				ArgsUsage: "[query]",
				Action:    labelsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "keys",
						Usage: "Also list every normalized query",
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           charmlog.Level(level),
		Formatter:       charmlog.TextFormatter,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig reads the environment and applies any flags that were set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.IsSet("catalog") {
		cfg.CatalogPath = c.String("catalog")
	}
	if c.IsSet("ranking") {
		cfg.RankingPath = c.String("ranking")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("model-dir") {
		cfg.AI.PrimaryModelDir = c.String("model-dir")
	}
	if c.IsSet("host") {
		ai.WithHost(c.String("host"))(cfg.AI)
	}
	if c.IsSet("embedding-host") {
		cfg.AI.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.AI.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("link-base-url") {
		cfg.LinkBaseURL = c.String("link-base-url")
	}
	if c.IsSet("enrich-links") {
		cfg.LinkEnrichment = c.Bool("enrich-links")
	}
	cfg.LogLevel = c.String("log-level")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func suggestCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	topK, threshold := cfg.TopK, cfg.Threshold
	if c.IsSet("top-k") {
		topK = c.Int("top-k")
	}
	if c.IsSet("threshold") {
		threshold = c.Float64("threshold")
	}

	svc, err := procsuggest.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
	defer cancel()

	result := svc.Suggest(ctx, query, topK, threshold)
	return writeJSON(c.App.Writer, result)
}

func warmCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc, err := procsuggest.Open(cfg,
		procsuggest.WithProgress(c.App.ErrWriter),
		procsuggest.WithRebuild(c.Bool("rebuild")),
	)
	if err != nil {
		return fmt.Errorf("failed to open service: %w", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(c.App.ErrWriter, "Catalog: %s\n", cfg.CatalogPath)
	if cfg.CacheDir != "" {
		fmt.Fprintf(c.App.ErrWriter, "Cache: %s\n", cfg.CacheDir)
	}
	fmt.Fprintln(c.App.ErrWriter)

	snap, err := svc.Warm(ctx)
	if err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "model=%s procedures=%d labels=%d\n", snap.ModelID(), snap.Len(), snap.Labels().Size())
	return nil
}

type labelStats struct {
	Path    string   `json:"path"`
	Queries int      `json:"queries"`
	Labels  int      `json:"labels"`
	Keys    []string `json:"keys,omitempty"`
}

func labelsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	index, err := ranking.Build(cfg.RankingPath)
	if err != nil {
		return err
	}

	if c.Args().Present() {
		return writeJSON(c.App.Writer, index.Lookup(strings.Join(c.Args().Slice(), " ")))
	}
	stats := labelStats{
		Path:    cfg.RankingPath,
		Queries: index.Len(),
		Labels:  index.Size(),
	}
	if c.Bool("keys") {
		stats.Keys = index.Keys()
	}
	return writeJSON(c.App.Writer, stats)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
