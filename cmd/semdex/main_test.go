package main

import (
	"context"
	"flag"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/semdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseKeyValues(t *testing.T) {
	t.Run("valid pairs", func(t *testing.T) {
		meta, err := parseKeyValues([]string{"family=STM32", "rev=3"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"family": "STM32", "rev": "3"}, meta)
	})

	t.Run("empty input returns nil map", func(t *testing.T) {
		meta, err := parseKeyValues(nil)
		require.NoError(t, err)
		assert.Nil(t, meta)
	})

	t.Run("value may contain equals sign", func(t *testing.T) {
		meta, err := parseKeyValues([]string{"query=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", meta["query"])
	})

	t.Run("missing separator fails", func(t *testing.T) {
		_, err := parseKeyValues([]string{"family"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "key=value")
	})

	t.Run("empty key fails", func(t *testing.T) {
		_, err := parseKeyValues([]string{"=value"})
		require.Error(t, err)
	})
}

func TestRerankProvider(t *testing.T) {
	makeContext := func(set ...string) *cli.Context {
		flags := flag.NewFlagSet("test", flag.ContinueOnError)
		flags.Bool("rerank", false, "")
		flags.Bool("rerank-local", false, "")
		flags.Bool("rerank-bge", false, "")
		for _, name := range set {
			require.NoError(t, flags.Set(name, "true"))
		}
		return cli.NewContext(nil, flags, nil)
	}

	t.Run("no flags means no reranking", func(t *testing.T) {
		provider, err := rerankProvider(makeContext())
		require.NoError(t, err)
		assert.Empty(t, provider)
	})

	t.Run("each flag maps to its provider", func(t *testing.T) {
		cases := map[string]string{
			"rerank":       "cohere",
			"rerank-local": "local",
			"rerank-bge":   "bge",
		}
		for flagName, want := range cases {
			provider, err := rerankProvider(makeContext(flagName))
			require.NoError(t, err)
			assert.Equal(t, want, provider)
		}
	})

	t.Run("multiple flags fail", func(t *testing.T) {
		_, err := rerankProvider(makeContext("rerank", "rerank-bge"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most one")
	})
}

func TestChunkLocation(t *testing.T) {
	t.Run("paged chunk shows page", func(t *testing.T) {
		result := &core.SearchResult{Chunk: &core.Chunk{Page: 12}}
		assert.Equal(t, "page 12", chunkLocation(result))
	})

	t.Run("sectioned chunk shows header", func(t *testing.T) {
		result := &core.SearchResult{Chunk: &core.Chunk{Section: "Clock configuration"}}
		assert.Equal(t, "Clock configuration", chunkLocation(result))
	})

	t.Run("plain text chunk shows index", func(t *testing.T) {
		result := &core.SearchResult{Chunk: &core.Chunk{ChunkIndex: 3}}
		assert.Equal(t, "chunk 3", chunkLocation(result))
	})
}

func TestTruncateText(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", truncateText("hello", 10))
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		got := truncateText(long, resultTextLimit)
		assert.Len(t, got, resultTextLimit+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("newlines flattened", func(t *testing.T) {
		assert.Equal(t, "a b", truncateText("a\nb", 10))
	})
}

func TestSetupLogger(t *testing.T) {
	runWithLevel := func(level string) error {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		return app.Run([]string{"test", "--log-level", level})
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.NoError(t, runWithLevel(level))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.NoError(t, runWithLevel("DEBUG"))
		assert.NoError(t, runWithLevel("WaRn"))
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := runWithLevel("verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	// setupLogger replaces the process default logger; make sure levels
	// actually map to slog levels and not just pass validation.
	t.Run("maps to slog levels", func(t *testing.T) {
		require.NoError(t, runWithLevel("error"))
		assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
		require.NoError(t, runWithLevel("debug"))
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestSearchUsageErrors(t *testing.T) {
	app := &cli.App{
		Name: "semdex",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Value: "./databases"},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: append(embeddingFlags(),
					&cli.IntFlag{Name: "top-k", Value: 5},
					&cli.StringSliceFlag{Name: "filter"},
					&cli.BoolFlag{Name: "rerank"},
					&cli.BoolFlag{Name: "rerank-local"},
					&cli.BoolFlag{Name: "rerank-bge"},
					&cli.BoolFlag{Name: "keyword-boost"},
				),
			},
		},
	}

	t.Run("missing query fails", func(t *testing.T) {
		err := app.Run([]string{"semdex", "search", "notes"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage: search")
	})

	t.Run("bad filter fails before opening database", func(t *testing.T) {
		err := app.Run([]string{"semdex", "search", "--filter", "broken", "notes", "clock tree"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--filter")
	})
}
