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


package storage

import (
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/semdex/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(id), err
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// ChunkMUS is the MUS serializer for core.Chunk.
// Field order is part of the on-disk format: changing it breaks
// previously written databases.
var ChunkMUS = chunkSer{}

type chunkSer struct{}

func (chunkSer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(c.Id), bs)
	n += ord.String.Marshal(c.Text, bs[n:])
	n += ord.String.Marshal(c.Source, bs[n:])
	n += varint.Int.Marshal(c.Page, bs[n:])
	n += ord.String.Marshal(c.Section, bs[n:])
	n += varint.Int.Marshal(c.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(len(c.Extra), bs[n:])
	for _, k := range sortedKeys(c.Extra) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(c.Extra[k], bs[n:])
	}
	n += varint.Int.Marshal(len(c.Vector), bs[n:])
	for _, v := range c.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += varint.Int64.Marshal(c.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var n1 int
	var id uint64
	if id, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	c.Id = core.ID(id)
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Page, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Section, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var extraLen int
	if extraLen, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if extraLen < 0 {
		err = ErrSerializationFailed
		return
	}
	if extraLen > 0 {
		c.Extra = make(map[string]string, extraLen)
		for i := 0; i < extraLen; i++ {
			var k, v string
			if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
			if v, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
			c.Extra[k] = v
		}
	}

	var vecLen int
	if vecLen, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if vecLen < 0 || vecLen*4 > len(bs)-n {
		err = ErrTruncatedData
		return
	}
	if vecLen > 0 {
		c.Vector = make([]float32, vecLen)
		for i := 0; i < vecLen; i++ {
			if c.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}

	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	c.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (chunkSer) Size(c core.Chunk) (size int) {
	size = varint.Uint64.Size(uint64(c.Id))
	size += ord.String.Size(c.Text)
	size += ord.String.Size(c.Source)
	size += varint.Int.Size(c.Page)
	size += ord.String.Size(c.Section)
	size += varint.Int.Size(c.ChunkIndex)
	size += varint.Int.Size(len(c.Extra))
	for k, v := range c.Extra {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	size += varint.Int.Size(len(c.Vector))
	for _, v := range c.Vector {
		size += raw.Float32.Size(v)
	}
	size += varint.Int64.Size(c.InsertedAt.UnixMicro())
	return size
}

// sortedKeys keeps map encoding deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
