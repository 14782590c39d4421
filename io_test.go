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
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Round-trip (spec §8.5): fromfile(tofile(F)) == F bit-for-bit.
func TestFilterRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := New(5000, 0.001)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		_, err := f.Add(r.Int(), false)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)

	g, err := ReadFilter(&buf, -1)
	require.NoError(t, err)

	assert.Equal(t, f.errorRate, g.errorRate)
	assert.Equal(t, f.capacity, g.capacity)
	assert.Equal(t, f.geom, g.geom)
	assert.Equal(t, f.count, g.count)
	assert.True(t, f.bits.Equal(g.bits))
}

func TestFilterRoundTripWithBudget(t *testing.T) {
	t.Parallel()

	f, err := New(1000, 0.01)
	require.NoError(t, err)
	_, err = f.Add("hello", false)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)

	g, err := ReadFilter(bytes.NewReader(buf.Bytes()), n)
	require.NoError(t, err)
	assert.True(t, g.Contains("hello"))
}

func TestFilterFromFileBadPayloadLength(t *testing.T) {
	t.Parallel()

	f, err := New(100, 0.01)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-1]
	_, err = ReadFilter(bytes.NewReader(truncated), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestFilterFromFileNTooSmall(t *testing.T) {
	t.Parallel()

	f, err := New(100, 0.01)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadFilter(bytes.NewReader(buf.Bytes()), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

// S6 from the spec: a scalable filter of 12,345 random integers round-trips
// and every inserted integer is still contained after reload.
func TestScalableRoundTrip(t *testing.T) {
	const n = 12345

	sbf, err := NewScalable(ScalableBloomFilterConfig{
		InitialCapacity: 128,
		ErrorRate:       0.001,
		Mode:            SmallSetGrowth,
	})
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	inserted := make([]uint32, n)
	for i := range inserted {
		v := r.Uint32()
		inserted[i] = v
		_, err := sbf.Add(v)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	_, err = sbf.WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := ReadScalable(&buf)
	require.NoError(t, err)

	assert.Equal(t, sbf.mode, reloaded.mode)
	assert.Equal(t, sbf.ratio, reloaded.ratio)
	assert.Equal(t, sbf.initialCapacity, reloaded.initialCapacity)
	assert.Equal(t, sbf.errorRate, reloaded.errorRate)
	assert.EqualValues(t, sbf.Len(), reloaded.Len())

	for _, v := range inserted {
		assert.True(t, reloaded.Contains(v))
	}
}

func TestScalableRoundTripEmpty(t *testing.T) {
	t.Parallel()

	sbf, err := NewScalable(ScalableBloomFilterConfig{})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = sbf.WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := ReadScalable(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.NumFilters())
	assert.EqualValues(t, 0, reloaded.Len())
}

func TestScalableFromBadStream(t *testing.T) {
	t.Parallel()

	_, err := ReadScalable(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
}
