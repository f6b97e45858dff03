package rerank

import (
	"fmt"

	"github.com/poiesic/semdex/ai"
)

// Provider discriminators accepted by New.
const (
	ProviderCohere = "cohere"
	ProviderLocal  = "local"
	ProviderBGE    = "bge"
)

// New constructs a reranker for the given provider discriminator.
// Returns ai.ErrUnknownProvider for unrecognized discriminators and
// ai.ErrMissingAPIKey when a required credential is absent.
func New(provider string, config *ai.Config) (ai.Reranker, error) {
	switch provider {
	case ProviderCohere:
		return NewCohere(config.CohereAPIKey)
	case ProviderLocal:
		return NewCrossEncoder(config.LocalRerankHost)
	case ProviderBGE:
		return NewCrossEncoder(config.BGERerankHost)
	default:
		return nil, fmt.Errorf("%w: rerank provider %q", ai.ErrUnknownProvider, provider)
	}
}
