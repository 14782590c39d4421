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

// Package slicehash derives the per-slice bit indices a Bloom filter needs
// from a key and a filter's geometry.
//
// Given (numSlices, bitsPerSlice), Indices produces numSlices values each
// in [0, bitsPerSlice), one per slice of a partitioned Bloom filter. The
// sequence is a pure function of (numSlices, bitsPerSlice, key): a filter
// never needs to persist hash state, only the two geometry numbers, because
// a Generator can always be rebuilt from them.
package slicehash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"
)

// chunkSize returns the width in bytes of a single hash chunk for a slice of
// bitsPerSlice bits, per the widening rule: wider slices need wider chunks
// so that chunk%bitsPerSlice stays close to uniform.
func chunkSize(bitsPerSlice uint64) int {
	switch {
	case bitsPerSlice >= 1<<31:
		return 8
	case bitsPerSlice >= 1<<15:
		return 4
	default:
		return 2
	}
}

// digest picks the narrowest hash in the MD5..SHA-512 ladder whose output is
// at least totalBits long.
func digest(totalBits int) func() hash.Hash {
	switch {
	case totalBits > 384:
		return sha512.New
	case totalBits > 256:
		return sha512.New384
	case totalBits > 160:
		return sha256.New
	case totalBits > 128:
		return sha1.New
	default:
		return md5.New
	}
}

// A Generator produces the slice indices for keys under a fixed geometry.
// The zero Generator is not usable; create one with New.
type Generator struct {
	numSlices    int
	bitsPerSlice uint64
	chunkSize    int
	newHash      func() hash.Hash
	salts        []hash.Hash
}

// New builds a Generator for a filter with the given number of slices and
// bits per slice. It panics if numSlices <= 0 or bitsPerSlice == 0; callers
// (BloomFilter construction) are expected to have already validated these
// against the spec's ConfigError conditions.
func New(numSlices int, bitsPerSlice uint64) *Generator {
	if numSlices <= 0 {
		panic("slicehash: numSlices must be positive")
	}
	if bitsPerSlice == 0 {
		panic("slicehash: bitsPerSlice must be positive")
	}

	cs := chunkSize(bitsPerSlice)
	totalBits := 8 * numSlices * cs
	newHash := digest(totalBits)

	chunksPerDigest := newHash().Size() / cs
	numSalts := numSlices / chunksPerDigest
	if numSlices%chunksPerDigest != 0 {
		numSalts++
	}

	g := &Generator{
		numSlices:    numSlices,
		bitsPerSlice: bitsPerSlice,
		chunkSize:    cs,
		newHash:      newHash,
		salts:        make([]hash.Hash, numSalts),
	}
	for i := range g.salts {
		g.salts[i] = saltedDigest(newHash, uint32(i))
	}
	return g
}

// saltedDigest returns H(H(little-endian u32 of salt)) as a pre-initialized
// hash.Hash: absorbing a key and calling Sum is equivalent to hashing the
// salt-prefixed key, without recomputing the salt's own digest every time.
func saltedDigest(newHash func() hash.Hash, salt uint32) hash.Hash {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], salt)

	inner := newHash()
	inner.Write(buf[:])

	outer := newHash()
	outer.Write(inner.Sum(nil))
	return outer
}

// Indices appends the numSlices slice indices for key to dst and returns the
// result. Each index lies in [0, bitsPerSlice). The sequence is deterministic
// in (numSlices, bitsPerSlice, key) and stable across hosts and processes.
func (g *Generator) Indices(key []byte, dst []uint64) []uint64 {
	need := g.numSlices
	for _, salt := range g.salts {
		if need <= 0 {
			break
		}

		h, ok := g.cloneSalt(salt)
		if !ok {
			// Every hash.Hash produced by the crypto/... packages used here
			// implements encoding.BinaryMarshaler, so this should not happen.
			panic("slicehash: hash implementation does not support cloning")
		}
		h.Write(key)
		sum := h.Sum(nil)

		for off := 0; off+g.chunkSize <= len(sum) && need > 0; off += g.chunkSize {
			v := decodeChunk(sum[off : off+g.chunkSize])
			dst = append(dst, v%g.bitsPerSlice)
			need--
		}
	}
	return dst
}

func decodeChunk(b []byte) uint64 {
	switch len(b) {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		panic(fmt.Sprintf("slicehash: unsupported chunk size %d", len(b)))
	}
}

// cloneSalt copies the state of a salted hash.Hash without disturbing the
// original, so the salt can be reused for the next key. hash.Hash
// implementations in the standard crypto packages support this via
// encoding.BinaryMarshaler/BinaryUnmarshaler on the concrete type returned
// by New(); g.newHash() always returns that same concrete type, so it is
// used to allocate the clone before transplanting the marshaled state.
type binaryState interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

func (g *Generator) cloneSalt(salt hash.Hash) (hash.Hash, bool) {
	bs, ok := salt.(binaryState)
	if !ok {
		return nil, false
	}

	state, err := bs.MarshalBinary()
	if err != nil {
		return nil, false
	}

	clone := g.newHash()
	cbs, ok := clone.(binaryState)
	if !ok {
		return nil, false
	}
	if err := cbs.UnmarshalBinary(state); err != nil {
		return nil, false
	}
	return clone, true
}

// KeyBytes normalizes a key to its canonical byte encoding: strings (and
// []byte) pass through UTF-8/raw, everything else is rendered via its
// textual representation, matching the fallback the spec requires for
// non-byte-like keys (§4.1 step 4).
func KeyBytes(key interface{}) []byte {
	switch k := key.(type) {
	case []byte:
		return k
	case string:
		return []byte(k)
	case fmt.Stringer:
		return []byte(k.String())
	default:
		return []byte(fmt.Sprint(k))
	}
}
