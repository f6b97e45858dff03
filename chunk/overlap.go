package chunk

import "strings"

// overlapMarker brackets text duplicated from a neighboring chunk.
const overlapMarker = "[...]"

// AddOverlap injects bounded context from each chunk's neighbors: the last
// overlap/2 tokens of the previous chunk are prepended as a "[...] tail"
// paragraph and the first overlap/2 tokens of the next chunk are appended as
// a "head [...]" paragraph. Purely additive annotation; the returned slice
// has the same length as the input and metadata is untouched. Identity for
// zero or one chunks.
func AddOverlap(tc *TokenCounter, chunks []string, overlap int) []string {
	if len(chunks) <= 1 {
		return chunks
	}

	half := overlap / 2
	overlapped := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		parts := make([]string, 0, 3)

		if i > 0 {
			prev := tc.Encode(chunks[i-1])
			start := len(prev) - half
			if start < 0 {
				start = 0
			}
			tail := strings.TrimSpace(tc.Decode(prev[start:]))
			if tail != "" {
				parts = append(parts, overlapMarker+" "+tail)
			}
		}

		parts = append(parts, chunk)

		if i < len(chunks)-1 {
			next := tc.Encode(chunks[i+1])
			end := half
			if end > len(next) {
				end = len(next)
			}
			head := strings.TrimSpace(tc.Decode(next[:end]))
			if head != "" {
				parts = append(parts, head+" "+overlapMarker)
			}
		}

		overlapped = append(overlapped, strings.Join(parts, "\n\n"))
	}

	return overlapped
}
