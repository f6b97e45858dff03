// Package reembed regenerates the stored embedding vectors of every chunk
// in a database, batch by batch, with retry and progress reporting. Used
// after switching embedding models or providers.
package reembed
