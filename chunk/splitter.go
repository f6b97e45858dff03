package chunk

import "strings"

// DefaultSeparators is the fallback hierarchy tried in order: paragraph
// break, line break, sentence end, single space. Each level is a strictly
// finer split than the one before it.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Splitter recursively splits text into chunks that each fit a token budget.
type Splitter struct {
	tc         *TokenCounter
	budget     int
	separators []string
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSeparators overrides the separator hierarchy.
func WithSeparators(separators []string) SplitterOption {
	return func(s *Splitter) {
		s.separators = separators
	}
}

// NewSplitter creates a Splitter with the given token budget.
func NewSplitter(tc *TokenCounter, budget int, opts ...SplitterOption) *Splitter {
	s := &Splitter{
		tc:         tc,
		budget:     budget,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split returns ordered chunks of text, each within the token budget.
// Whitespace-only input yields no chunks. A single atomic unit that still
// exceeds the budget at the finest separator level passes through unsplit;
// that is the accepted edge case of the greedy accumulation scheme.
func (s *Splitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Terminal case: hierarchy exhausted or text already fits.
	if len(separators) == 0 || s.tc.Count(text) <= s.budget {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	separator := separators[0]
	remaining := separators[1:]

	segments := strings.Split(text, separator)
	var chunks []string
	current := ""

	for _, segment := range segments {
		candidate := segment
		if current != "" {
			candidate = current + separator + segment
		}
		if s.tc.Count(candidate) <= s.budget {
			current = candidate
			continue
		}

		// Adding this segment would exceed the budget: flush immediately.
		// No look-ahead merging, no balancing of chunk sizes.
		if current != "" {
			chunks = append(chunks, current)
		}
		if s.tc.Count(segment) > s.budget {
			// The segment alone is oversized; recurse with finer separators.
			chunks = append(chunks, s.split(segment, remaining)...)
			current = ""
		} else {
			current = segment
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
