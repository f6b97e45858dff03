package chunk

import (
	"regexp"
	"strings"

	"github.com/poiesic/semdex/core"
)

// Patterns for reference-manual page headers/footers stripped during cleaning,
// e.g. "612/709 RM0041 Rev 6".
var headerFooterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\d+/\d+\s+RM\d+\s+Rev\s+\d+\s*$`),
	regexp.MustCompile(`(?m)^RM\d+\s+Rev\s+\d+\s+\d+/\d+\s*$`),
	regexp.MustCompile(`(?m)^RM\d+\s+[A-Za-z].*$`),
}

var (
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	trailingWSPattern = regexp.MustCompile(`(?m)[ \t]+$`)
	headerLinePattern = regexp.MustCompile(`^(#{1,4})\s+(.+)$`)

	pageNumberLinePattern = regexp.MustCompile(`(?m)^\d+\s*$`)
	dotLeaderPattern      = regexp.MustCompile(`(?m)\.[\s.]+\d+\s*$`)
)

// CleanDocument strips page header/footer boilerplate, collapses runs of
// three or more blank lines to a single blank line, removes trailing
// whitespace per line and trims the document. The cleaning is lossy and
// intentional: boilerplate removal improves chunk signal-to-noise.
func CleanDocument(text string) string {
	for _, pattern := range headerFooterPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = trailingWSPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Segment splits markdown-like text into header-delimited sections. A header
// is a line of one to four '#' markers followed by a title; everything up to
// the next header belongs to that section. Content before the first header
// forms a level-0 section with an empty header. Sections that accumulate no
// content lines are dropped, so consecutive headers emit nothing for the
// earlier one.
func Segment(text string) []core.Section {
	lines := strings.Split(text, "\n")

	var sections []core.Section
	current := core.Section{}

	for _, line := range lines {
		if m := headerLinePattern.FindStringSubmatch(line); m != nil {
			if len(current.Lines) > 0 {
				sections = append(sections, current)
			}
			current = core.Section{
				Header: strings.TrimSpace(m[2]),
				Level:  len(m[1]),
			}
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	if len(current.Lines) > 0 {
		sections = append(sections, current)
	}

	return sections
}

// minSectionContentLen is the chunk-worthiness threshold: sections whose
// content shrinks below this many characters once bare page numbers or
// dot-leader TOC entries are stripped are discarded entirely. This trades
// recall of very short legitimate sections for suppression of
// reference-manual tables of contents.
const minSectionContentLen = 50

// SectionChunker turns sections into annotated chunk strings.
type SectionChunker struct {
	tc     *TokenCounter
	budget int
}

// NewSectionChunker creates a SectionChunker with the given token budget.
func NewSectionChunker(tc *TokenCounter, budget int) *SectionChunker {
	return &SectionChunker{tc: tc, budget: budget}
}

// Chunk produces the chunk strings for a section: the header is re-attached
// to every chunk for context and each chunk is prefixed with its key-term
// annotation. Returns nil for empty or TOC-like sections.
func (sc *SectionChunker) Chunk(section core.Section) []string {
	content := strings.TrimSpace(strings.Join(section.Lines, "\n"))
	if content == "" {
		return nil
	}

	withoutNumbers := strings.TrimSpace(pageNumberLinePattern.ReplaceAllString(content, ""))
	withoutTOC := strings.TrimSpace(dotLeaderPattern.ReplaceAllString(content, ""))
	if len(withoutNumbers) < minSectionContentLen || len(withoutTOC) < minSectionContentLen {
		return nil
	}

	fullText := content
	if section.Header != "" {
		fullText = "# " + section.Header + "\n\n" + content
	}

	annotated := ExtractKeyTerms(fullText, section.Header) + fullText
	if sc.tc.Count(annotated) <= sc.budget {
		if strings.TrimSpace(annotated) == "" {
			return nil
		}
		return []string{annotated}
	}

	// Section exceeds the budget: split the content and re-attach the header
	// and a per-chunk annotation to every piece.
	splitter := NewSplitter(sc.tc, sc.budget)
	pieces := splitter.Split(content)

	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		withHeader := piece
		if section.Header != "" {
			withHeader = "# " + section.Header + "\n\n" + piece
		}
		final := ExtractKeyTerms(withHeader, section.Header) + withHeader
		if strings.TrimSpace(final) != "" {
			chunks = append(chunks, final)
		}
	}

	return chunks
}
