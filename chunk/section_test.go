package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/semdex/core"
)

func TestCleanDocument(t *testing.T) {
	t.Run("strips page headers and footers", func(t *testing.T) {
		text := "612/709 RM0041 Rev 6\nReal content here.\nRM0041 Rev 6 612/709"
		got := CleanDocument(text)
		assert.Equal(t, "Real content here.", got)
	})

	t.Run("collapses blank line runs", func(t *testing.T) {
		got := CleanDocument("alpha\n\n\n\n\nbeta")
		assert.Equal(t, "alpha\n\nbeta", got)
	})

	t.Run("strips trailing whitespace per line", func(t *testing.T) {
		got := CleanDocument("alpha   \nbeta\t")
		assert.Equal(t, "alpha\nbeta", got)
	})

	t.Run("trims the document", func(t *testing.T) {
		got := CleanDocument("\n\n  alpha  \n\n")
		assert.Equal(t, "alpha", got)
	})
}

func TestSegment(t *testing.T) {
	t.Run("splits on headers with levels", func(t *testing.T) {
		text := "# Top\nintro line\n## Nested\nnested line one\nnested line two"
		sections := Segment(text)
		require.Len(t, sections, 2)

		assert.Equal(t, "Top", sections[0].Header)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, []string{"intro line"}, sections[0].Lines)

		assert.Equal(t, "Nested", sections[1].Header)
		assert.Equal(t, 2, sections[1].Level)
		assert.Equal(t, []string{"nested line one", "nested line two"}, sections[1].Lines)
	})

	t.Run("preamble becomes level zero section", func(t *testing.T) {
		text := "before any header\n# First\nbody"
		sections := Segment(text)
		require.Len(t, sections, 2)
		assert.Equal(t, "", sections[0].Header)
		assert.Equal(t, 0, sections[0].Level)
		assert.Equal(t, []string{"before any header"}, sections[0].Lines)
	})

	t.Run("consecutive headers drop the empty section", func(t *testing.T) {
		text := "# Empty\n## Filled\nbody line"
		sections := Segment(text)
		require.Len(t, sections, 1)
		assert.Equal(t, "Filled", sections[0].Header)
	})

	t.Run("five hash marks is not a header", func(t *testing.T) {
		text := "##### deep\nbody"
		sections := Segment(text)
		require.Len(t, sections, 1)
		assert.Equal(t, "", sections[0].Header)
		assert.Equal(t, []string{"##### deep", "body"}, sections[0].Lines)
	})
}

func TestSectionChunkerDiscardsTOC(t *testing.T) {
	tc := testCounter()
	sc := NewSectionChunker(tc, 500)

	t.Run("dot leader entries", func(t *testing.T) {
		section := core.Section{
			Header: "Contents",
			Level:  1,
			Lines: []string{
				"Introduction . . . . . . . . . 12",
				"Memory map . . . . . . . . . . 34",
			},
		}
		assert.Empty(t, sc.Chunk(section))
	})

	t.Run("bare page numbers", func(t *testing.T) {
		section := core.Section{
			Header: "Index",
			Level:  1,
			Lines:  []string{"12", "34", "56"},
		}
		assert.Empty(t, sc.Chunk(section))
	})

	t.Run("short residue under threshold", func(t *testing.T) {
		// 40 characters of real content after stripping: below the 50-char
		// threshold, the whole section is suppressed.
		section := core.Section{
			Header: "Tiny",
			Level:  2,
			Lines:  []string{"exactly forty characters of content here"},
		}
		require.Less(t, len(strings.Join(section.Lines, "\n")), 50)
		assert.Empty(t, sc.Chunk(section))
	})

	t.Run("empty section", func(t *testing.T) {
		assert.Empty(t, sc.Chunk(core.Section{Header: "Empty", Level: 1}))
	})
}

func TestSectionChunkerSingleChunk(t *testing.T) {
	tc := testCounter()
	sc := NewSectionChunker(tc, 500)

	section := core.Section{
		Header: "Functional description",
		Level:  2,
		Lines: []string{
			"The peripheral clocks must be enabled before any register access.",
			"Writing to a disabled peripheral has no effect and reads return zero.",
		},
	}

	chunks := sc.Chunk(section)
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0], "# Functional description\n\n"))
	assert.Contains(t, chunks[0], "peripheral clocks")
}

func TestSectionChunkerSplitsWithHeaderOnEachChunk(t *testing.T) {
	tc := testCounter()
	sc := NewSectionChunker(tc, 60)

	paragraphs := []string{
		words("alpha", 40),
		words("beta", 40),
		words("gamma", 40),
	}
	section := core.Section{
		Header: "Long section",
		Level:  1,
		Lines:  strings.Split(strings.Join(paragraphs, "\n\n"), "\n"),
	}

	chunks := sc.Chunk(section)
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.True(t, strings.HasPrefix(chunk, "# Long section\n\n"), "missing header on %.40q", chunk)
	}
}

func TestSectionChunkerAnnotatesKeyTerms(t *testing.T) {
	tc := testCounter()
	sc := NewSectionChunker(tc, 500)

	section := core.Section{
		Header: "AFIO registers",
		Level:  2,
		Lines: []string{
			"The AFIO_MAPR register controls pin remapping on this device family.",
		},
	}

	chunks := sc.Chunk(section)
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0], "[KEY: "), "annotation missing: %.60q", chunks[0])
	assert.Contains(t, chunks[0], "AFIO_MAPR")
}
