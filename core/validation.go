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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Source must not be empty
//   - ChunkIndex must not be negative
//   - Page must not be negative (0 means "not a paged source")
//
// NOT validated (populated later in the pipeline):
//   - Vector (can be empty until the embedding step runs)
//   - Id (0 is valid before ID assignment)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySource)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.Page < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativePage)
	}

	return nil
}

// TruncateSectionHeader trims a section header to the metadata length cap.
func TruncateSectionHeader(header string) string {
	if len(header) > SectionHeaderMaxLen {
		return header[:SectionHeaderMaxLen]
	}
	return header
}
