package chunk

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the fixed tokenization scheme shared by every component.
// Budgets only mean the same thing everywhere if this never varies per call.
const encodingName = "cl100k_base"

// Codec converts text to and from a token id sequence.
type Codec interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// TokenCounter wraps a Codec and reports token counts for budgeting.
type TokenCounter struct {
	codec Codec
}

// NewTokenCounter creates a TokenCounter over the given codec.
// Production code should use Default; this constructor exists so tests can
// substitute a deterministic codec.
func NewTokenCounter(codec Codec) *TokenCounter {
	return &TokenCounter{codec: codec}
}

// Count returns the number of tokens in text.
func (t *TokenCounter) Count(text string) int {
	return len(t.codec.Encode(text))
}

// Encode converts text to its token id sequence.
func (t *TokenCounter) Encode(text string) []int {
	return t.codec.Encode(text)
}

// Decode converts a token id sequence back to text.
func (t *TokenCounter) Decode(ids []int) string {
	return t.codec.Decode(ids)
}

var (
	defaultOnce    sync.Once
	defaultCounter *TokenCounter
	defaultErr     error
)

// Default returns the process-wide token counter backed by the cl100k_base
// encoding. Initialization runs once and is idempotent; every caller shares
// the same instance so token budgets are comparable across components.
func Default() (*TokenCounter, error) {
	defaultOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCounter = NewTokenCounter(tiktokenCodec{enc: enc})
	})
	return defaultCounter, defaultErr
}

// tiktokenCodec adapts tiktoken-go to the Codec interface.
type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

var _ Codec = tiktokenCodec{}

func (c tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c tiktokenCodec) Decode(ids []int) string {
	return c.enc.Decode(ids)
}
