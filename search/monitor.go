package search

import "github.com/poiesic/semdex/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterVectorSearch(candidates []*core.SearchResult)
	RerankSkipped(provider string, err error)
	AfterRerank(candidates []*core.SearchResult)
	AfterKeywordBoost(candidates []*core.SearchResult)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterVectorSearch(_ []*core.SearchResult)  {}
func (n *noopMonitor) RerankSkipped(_ string, _ error)           {}
func (n *noopMonitor) AfterRerank(_ []*core.SearchResult)        {}
func (n *noopMonitor) AfterKeywordBoost(_ []*core.SearchResult)  {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}
