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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// scalableHeaderLen is the size in bytes of a serialized
// ScalableBloomFilter's header (§6.3): scale (i32), ratio (f64),
// initial_capacity (u64), error_rate (f64), nfilters (i32).
const scalableHeaderLen = 4 + 8 + 8 + 8 + 4

// WriteTo writes s in the binary format described by §6.3: a header, a
// per-filter byte-length table, then each generation serialized as in
// §6.2. It implements io.WriterTo.
func (s *ScalableBloomFilter) WriteTo(w io.Writer) (int64, error) {
	var header [scalableHeaderLen]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(int32(s.mode)))
	binary.LittleEndian.PutUint64(header[4:12], math.Float64bits(s.ratio))
	binary.LittleEndian.PutUint64(header[12:20], s.initialCapacity)
	binary.LittleEndian.PutUint64(header[20:28], math.Float64bits(s.errorRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(int32(len(s.filters))))

	var total int64
	n, err := w.Write(header[:])
	total += int64(n)
	if err != nil {
		return total, err
	}

	if len(s.filters) == 0 {
		return total, nil
	}

	encoded := make([][]byte, len(s.filters))
	for i, f := range s.filters {
		var buf bytes.Buffer
		if _, err := f.WriteTo(&buf); err != nil {
			return total, fmt.Errorf("pbloom: encoding generation %d: %w", i, err)
		}
		encoded[i] = buf.Bytes()
	}

	lengths := make([]byte, 8*len(encoded))
	for i, enc := range encoded {
		binary.LittleEndian.PutUint64(lengths[8*i:8*i+8], uint64(len(enc)))
	}
	n, err = w.Write(lengths)
	total += int64(n)
	if err != nil {
		return total, err
	}

	for _, enc := range encoded {
		n, err = w.Write(enc)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadScalable reads a ScalableBloomFilter previously written with
// WriteTo from r.
//
// ReadScalable returns an error wrapping ErrFormat if the stream is
// truncated, the growth mode is not one of SmallSetGrowth/LargeSetGrowth,
// or an embedded generation fails its own format check.
func ReadScalable(r io.Reader) (*ScalableBloomFilter, error) {
	var header [scalableHeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: reading scalable filter header: %w", ErrFormat, err)
	}

	mode := GrowthMode(int32(binary.LittleEndian.Uint32(header[0:4])))
	ratio := math.Float64frombits(binary.LittleEndian.Uint64(header[4:12]))
	initialCapacity := binary.LittleEndian.Uint64(header[12:20])
	errorRate := math.Float64frombits(binary.LittleEndian.Uint64(header[20:28]))
	nfilters := int32(binary.LittleEndian.Uint32(header[28:32]))

	if !mode.valid() {
		return nil, fmt.Errorf("%w: unrecognized growth mode %d", ErrFormat, mode)
	}
	if nfilters < 0 {
		return nil, fmt.Errorf("%w: negative filter count %d", ErrFormat, nfilters)
	}

	s := &ScalableBloomFilter{
		mode:            mode,
		ratio:           ratio,
		initialCapacity: initialCapacity,
		errorRate:       errorRate,
	}
	if nfilters == 0 {
		return s, nil
	}

	lengths := make([]byte, 8*nfilters)
	if _, err := io.ReadFull(r, lengths); err != nil {
		return nil, fmt.Errorf("%w: reading filter-length table: %v", ErrFormat, err)
	}

	s.filters = make([]*Filter, nfilters)
	for i := int32(0); i < nfilters; i++ {
		flen := binary.LittleEndian.Uint64(lengths[8*i : 8*i+8])
		f, err := ReadFilter(io.LimitReader(r, int64(flen)), int64(flen))
		if err != nil {
			return nil, fmt.Errorf("%w: reading generation %d: %w", ErrFormat, i, err)
		}
		s.filters[i] = f
	}
	return s, nil
}
