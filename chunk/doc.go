// Package chunk implements token-budgeted document segmentation: recursive
// splitting over a separator hierarchy, bidirectional overlap injection,
// markdown section segmentation with document cleaning, and key-term
// annotation used downstream for keyword boosting.
//
// All budgets are measured in tokens of a single process-wide tokenization
// scheme (cl100k_base), never in characters.
package chunk
