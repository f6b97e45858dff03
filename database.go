// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package semdex turns document files into searchable, embedded chunks.
// Databases are directories under a common root, each holding one vector
// store; the Database type ties a store to an embedding provider and is
// the entry point for ingestion and search.
package semdex

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/semdex/ai"
	"github.com/poiesic/semdex/ai/openai"
	"github.com/poiesic/semdex/ingestion"
	"github.com/poiesic/semdex/search"
	"github.com/poiesic/semdex/storage"
	"github.com/poiesic/semdex/storage/badger"
)

// Database is an open handle on one named chunk database.
type Database struct {
	name      string
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	embedder  ai.Embedder
	aiConfig  *ai.Config
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder overrides the embedding provider. Used by tests.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// validateName rejects names that would escape the databases root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidDatabaseName, name)
	}
	return nil
}

// DatabaseExists reports whether a database directory exists under root.
func DatabaseExists(root, name string) bool {
	if validateName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}

// CreateDatabase creates a new empty database under root.
// Returns ErrDatabaseExists if the name is already taken.
func CreateDatabase(root, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if DatabaseExists(root, name) {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}

	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}

	// Open and close once so the store files exist on disk.
	backend, err := badger.OpenBackend(path, false)
	if err != nil {
		os.RemoveAll(path)
		return err
	}
	return backend.Close()
}

// ListDatabases returns the database names under root, sorted.
// A missing root directory yields an empty list.
func ListDatabases(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteDatabase removes a database and everything in it.
// Returns ErrDatabaseNotFound if it does not exist.
func DeleteDatabase(root, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if !DatabaseExists(root, name) {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	return os.RemoveAll(filepath.Join(root, name))
}

// OpenDatabase opens an existing database under root.
// Returns ErrDatabaseNotFound if it does not exist.
func OpenDatabase(root, name string, opts ...DatabaseOption) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !DatabaseExists(root, name) {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}

	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filepath.Join(root, name), false)
	if err != nil {
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		name:      name,
		backend:   backend,
		chunkRepo: badger.NewChunkRepository(backend),
		embedder:  embedder,
		aiConfig:  options.aiConfig,
		logger:    slog.Default(),
	}, nil
}

// Name returns the database name.
func (db *Database) Name() string {
	return db.name
}

// Close releases the database handle.
func (db *Database) Close() error {
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the underlying chunk store.
func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

// Embedder exposes the embedding provider the database was opened with.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// NewPipeline creates an ingestion pipeline writing into this database.
func (db *Database) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.chunkRepo, db.embedder, opts...)
}

// NewSearcher creates a searcher reading from this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.embedder, db.aiConfig, opts...)
}
