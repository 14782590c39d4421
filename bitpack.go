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

package pbloom

import "github.com/bits-and-blooms/bitset"

// byteLen returns the number of bytes needed to hold numBits bits,
// rounded up, per §6.2's payload sizing.
func byteLen(numBits uint64) uint64 {
	return (numBits + 7) / 8
}

// packBits serializes the first numBits bits of bs into a byte slice with
// bit 0 as the LSB of byte 0, matching §6.2's wire format. It is built on
// bitset.BitSet.Test rather than the library's internal word layout, so the
// wire format does not depend on bitset's (unspecified) word size.
func packBits(bs *bitset.BitSet, numBits uint64) []byte {
	out := make([]byte, byteLen(numBits))
	for i := uint64(0); i < numBits; i++ {
		if bs.Test(uint(i)) {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// unpackBits builds a bitset.BitSet of exactly numBits bits from a byte
// slice produced by packBits (or an equivalent little-endian, bit0-is-lsb
// encoding).
func unpackBits(data []byte, numBits uint64) *bitset.BitSet {
	bs := bitset.New(uint(numBits))
	for i := uint64(0); i < numBits; i++ {
		if data[i/8]&(1<<(i%8)) != 0 {
			bs.Set(uint(i))
		}
	}
	return bs
}
