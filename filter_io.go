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

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// filterHeaderLen is the size in bytes of a serialized Filter's header
// (§6.2): error_rate (f64), num_slices (u64), bits_per_slice (u64),
// capacity (u64), count (u64).
const filterHeaderLen = 40

// WriteTo writes f in the binary format described by §6.2: a 40-byte
// little-endian header followed by the raw bit payload, bit 0 as the LSB of
// byte 0. It implements io.WriterTo.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	var header [filterHeaderLen]byte
	binary.LittleEndian.PutUint64(header[0:8], math.Float64bits(f.errorRate))
	binary.LittleEndian.PutUint64(header[8:16], f.geom.numSlices)
	binary.LittleEndian.PutUint64(header[16:24], f.geom.bitsPerSlice)
	binary.LittleEndian.PutUint64(header[24:32], f.capacity)
	binary.LittleEndian.PutUint64(header[32:40], f.count)

	n, err := w.Write(header[:])
	total := int64(n)
	if err != nil {
		return total, err
	}

	payload := packBits(f.bits, f.geom.numBits())
	n, err = w.Write(payload)
	total += int64(n)
	return total, err
}

// ReadFilter reads a Filter previously written with WriteTo from r.
//
// If n > 0, only n-40 payload bytes are read after the header; otherwise r
// is drained to EOF. ReadFilter returns an error wrapping ErrFormat if the
// payload length does not match the number of bits implied by the stored
// geometry (rounded up to a whole byte).
func ReadFilter(r io.Reader, n int64) (*Filter, error) {
	if n > 0 && n < filterHeaderLen {
		return nil, fmt.Errorf("%w: declared length %d shorter than header", ErrFormat, n)
	}

	var header [filterHeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("pbloom: reading filter header: %w", err)
	}

	errorRate := math.Float64frombits(binary.LittleEndian.Uint64(header[0:8]))
	numSlices := binary.LittleEndian.Uint64(header[8:16])
	bitsPerSlice := binary.LittleEndian.Uint64(header[16:24])
	capacity := binary.LittleEndian.Uint64(header[24:32])
	count := binary.LittleEndian.Uint64(header[32:40])

	if numSlices == 0 || bitsPerSlice == 0 {
		return nil, fmt.Errorf("%w: num_slices and bits_per_slice must be positive", ErrFormat)
	}
	geom := geometry{numSlices: numSlices, bitsPerSlice: bitsPerSlice}
	numBits := geom.numBits()
	wantLen := byteLen(numBits)

	var payload []byte
	var err error
	if n > 0 {
		payload = make([]byte, n-filterHeaderLen)
		_, err = io.ReadFull(r, payload)
	} else {
		payload, err = io.ReadAll(r)
	}
	if err != nil {
		return nil, fmt.Errorf("pbloom: reading filter payload: %w", err)
	}

	if uint64(len(payload)) != wantLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d for %d bits",
			ErrFormat, len(payload), wantLen, numBits)
	}

	bits := unpackBits(payload, numBits)
	return newFilter(errorRate, capacity, geom, count, bits), nil
}
