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

// Package pbloom implements a fixed-capacity, partitioned Bloom filter and
// a Scalable Bloom Filter (SBF) built from a sequence of them.
//
// A Bloom filter is an approximate set: if a key has been added, a lookup
// of that key returns true; if it has not been added, the lookup usually
// returns false, but may return true with a bounded probability (a false
// positive). False negatives never happen.
//
// This package partitions a filter's bit array into k equal slices, one per
// hash function, so that bit s*bitsPerSlice+i means "slice s marked index
// i". The partitioned layout makes Union and Intersection whole-vector
// operations and is the layout the binary format assumes; see the original
// design by Almeida, Baquero, Preguica and Hutchison, Scalable Bloom
// Filters (2007).
//
// Keys are accepted as raw bytes, strings (UTF-8 encoded), or any other
// value, which falls back to its textual representation; callers with a
// custom key type should implement fmt.Stringer to get a stable encoding.
//
// A Filter and a ScalableBloomFilter are single-owner mutable objects: the
// package performs no internal locking, and concurrent calls that include
// a mutating Add are unsafe. Concurrent Contains calls against a filter
// that isn't being mutated are safe.
package pbloom

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/pbloom/pbloom/internal/slicehash"
)

// A Filter is a fixed-capacity, partitioned Bloom filter.
//
// The zero Filter is not usable; construct one with New.
type Filter struct {
	errorRate float64
	capacity  uint64
	geom      geometry
	count     uint64
	bits      *bitset.BitSet
	gen       *slicehash.Generator
}

// New constructs a Bloom filter that can hold up to capacity distinct
// elements while keeping the probability of a false positive at or below
// errorRate.
//
// New returns an error wrapping ErrConfig if capacity is zero or errorRate
// is not strictly between 0 and 1.
func New(capacity uint64, errorRate float64) (*Filter, error) {
	geom, err := sizeFilter(capacity, errorRate)
	if err != nil {
		return nil, err
	}
	return newFilter(errorRate, capacity, geom, 0, bitset.New(uint(geom.numBits()))), nil
}

func newFilter(errorRate float64, capacity uint64, geom geometry, count uint64, bits *bitset.BitSet) *Filter {
	return &Filter{
		errorRate: errorRate,
		capacity:  capacity,
		geom:      geom,
		count:     count,
		bits:      bits,
		gen:       slicehash.New(int(geom.numSlices), geom.bitsPerSlice),
	}
}

// Capacity returns the maximum number of elements the filter was sized for.
func (f *Filter) Capacity() uint64 { return f.capacity }

// ErrorRate returns the target false-positive probability the filter was
// configured with.
func (f *Filter) ErrorRate() float64 { return f.errorRate }

// NumSlices returns k, the number of hash functions / bit-array partitions.
func (f *Filter) NumSlices() uint64 { return f.geom.numSlices }

// BitsPerSlice returns m, the number of bits in each partition.
func (f *Filter) BitsPerSlice() uint64 { return f.geom.bitsPerSlice }

// NumBits returns the total number of bits in the filter, k*m.
func (f *Filter) NumBits() uint64 { return f.geom.numBits() }

// Len returns the number of elements added to the filter so far.
func (f *Filter) Len() uint64 { return f.count }

// indices computes the bit offset (slice*bitsPerSlice + i) within f.bits
// for each of the filter's k slices, given key.
func (f *Filter) indices(key interface{}) []uint64 {
	raw := f.gen.Indices(slicehash.KeyBytes(key), make([]uint64, 0, f.geom.numSlices))
	for s, i := range raw {
		raw[s] = uint64(s)*f.geom.bitsPerSlice + i
	}
	return raw
}

// Contains reports whether key has probably been added to the filter. It
// never returns a false negative: if key was added, Contains always
// returns true. Contains does not mutate the filter and is safe to call
// concurrently with other Contains calls.
func (f *Filter) Contains(key interface{}) bool {
	for _, bit := range f.indices(key) {
		if !f.bits.Test(uint(bit)) {
			return false
		}
	}
	return true
}

// Add inserts key into the filter and reports whether it was probably
// already present.
//
// When skipCheck is false (the usual case), Add checks membership while
// setting bits: if every bit was already set, key is treated as a probable
// duplicate, Add returns true, and count is not incremented. Otherwise Add
// returns false and increments count.
//
// When skipCheck is true, Add unconditionally sets the bits and increments
// count, on the caller's assurance that key is novel; it always returns
// false. This is used internally by ScalableBloomFilter, which has already
// checked for membership across all of its generations.
//
// Add returns ErrSaturated if the filter has already accepted more
// elements than its capacity; once that happens, the false-positive-rate
// guarantee for additional inserts no longer holds.
func (f *Filter) Add(key interface{}, skipCheck bool) (bool, error) {
	if f.count > f.capacity {
		return false, fmt.Errorf("%w: count=%d capacity=%d", ErrSaturated, f.count, f.capacity)
	}

	bits := f.indices(key)

	if skipCheck {
		for _, bit := range bits {
			f.bits.Set(uint(bit))
		}
		f.count++
		return false, nil
	}

	foundAllBits := true
	for _, bit := range bits {
		if foundAllBits && !f.bits.Test(uint(bit)) {
			foundAllBits = false
		}
		f.bits.Set(uint(bit))
	}

	if foundAllBits {
		return true, nil
	}
	f.count++
	return false, nil
}

// sameGeometry reports whether f and other were built with identical
// capacity, error rate, and derived slice geometry, the precondition for
// Union and Intersect.
func (f *Filter) sameGeometry(other *Filter) bool {
	return f.capacity == other.capacity &&
		f.errorRate == other.errorRate &&
		f.geom == other.geom
}

// Union returns a new filter whose bit array is the bitwise OR of f and
// other's. Every key present in either operand is present in the result.
//
// Union returns ErrIncompatible if f and other do not share identical
// capacity, error rate, and slice geometry. The result's Len is copied
// from f and should be treated as approximate, not exact.
func (f *Filter) Union(other *Filter) (*Filter, error) {
	if !f.sameGeometry(other) {
		return nil, fmt.Errorf("%w: union requires matching capacity and error rate", ErrIncompatible)
	}
	out := f.bits.Clone()
	out.InPlaceUnion(other.bits)
	return newFilter(f.errorRate, f.capacity, f.geom, f.count, out), nil
}

// Intersection returns a new filter whose bit array is the bitwise AND of f
// and other's. Every key present in both operands is present in the
// result, modulo false positives; the result's empirical false-positive
// rate can be up to roughly twice that of either operand.
//
// Intersection returns ErrIncompatible if f and other do not share
// identical capacity, error rate, and slice geometry. The result's Len is
// copied from f and should be treated as approximate, not exact.
func (f *Filter) Intersection(other *Filter) (*Filter, error) {
	if !f.sameGeometry(other) {
		return nil, fmt.Errorf("%w: intersection requires matching capacity and error rate", ErrIncompatible)
	}
	out := f.bits.Clone()
	out.InPlaceIntersection(other.bits)
	return newFilter(f.errorRate, f.capacity, f.geom, f.count, out), nil
}

// Copy returns a new filter with identical geometry and an independent
// clone of f's bit array.
func (f *Filter) Copy() *Filter {
	return newFilter(f.errorRate, f.capacity, f.geom, f.count, f.bits.Clone())
}

// String returns a human-readable summary of the filter's geometry and
// fill, for debugging and logging.
func (f *Filter) String() string {
	return fmt.Sprintf(
		"pbloom.Filter{capacity=%d, error_rate=%g, num_slices=%d, bits_per_slice=%d, count=%d}",
		f.capacity, f.errorRate, f.geom.numSlices, f.geom.bitsPerSlice, f.count)
}
