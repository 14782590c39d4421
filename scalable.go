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

import "fmt"

// GrowthMode selects how aggressively a ScalableBloomFilter grows its
// capacity from one generation to the next.
type GrowthMode int32

const (
	// SmallSetGrowth doubles capacity per generation: slower growth, less
	// memory use.
	SmallSetGrowth GrowthMode = 2

	// LargeSetGrowth quadruples capacity per generation: faster growth,
	// more memory use sooner.
	LargeSetGrowth GrowthMode = 4
)

func (m GrowthMode) String() string {
	switch m {
	case SmallSetGrowth:
		return "SmallSetGrowth"
	case LargeSetGrowth:
		return "LargeSetGrowth"
	default:
		return fmt.Sprintf("GrowthMode(%d)", int32(m))
	}
}

func (m GrowthMode) valid() bool {
	return m == SmallSetGrowth || m == LargeSetGrowth
}

// tighteningRatio is r, the fixed per-generation error-rate tightening
// factor (§3).
const tighteningRatio = 0.9

// ScalableBloomFilterConfig holds the parameters for NewScalable, following
// the teacher's Config-struct idiom for constructors with several optional
// numeric parameters.
type ScalableBloomFilterConfig struct {
	// InitialCapacity is the capacity of the first generation. Zero means
	// DefaultInitialCapacity.
	InitialCapacity uint64

	// ErrorRate is the overall target false-positive rate across all
	// generations. Zero means DefaultErrorRate.
	ErrorRate float64

	// Mode selects the per-generation capacity growth factor. Zero means
	// SmallSetGrowth.
	Mode GrowthMode
}

// Defaults for ScalableBloomFilterConfig's zero-valued fields, matching the
// spec's §6.1 defaults.
const (
	DefaultInitialCapacity uint64  = 100
	DefaultErrorRate       float64 = 0.001
)

// A ScalableBloomFilter is an ordered sequence of Bloom filters of
// geometrically increasing capacity and geometrically tightening
// per-filter error rate, chosen so that the compounded false-positive rate
// across all generations stays below a configured overall target (Almeida,
// Baquero, Preguica and Hutchison, 2007).
//
// The zero ScalableBloomFilter is not usable; construct one with
// NewScalable.
type ScalableBloomFilter struct {
	mode            GrowthMode
	ratio           float64
	initialCapacity uint64
	errorRate       float64
	filters         []*Filter
}

// NewScalable constructs an empty ScalableBloomFilter. The first generation
// is allocated lazily, on the first call to Add.
//
// NewScalable returns an error wrapping ErrConfig if cfg.ErrorRate is
// negative or >= 1, cfg.InitialCapacity would resolve to zero, or cfg.Mode
// is set to something other than SmallSetGrowth/LargeSetGrowth.
func NewScalable(cfg ScalableBloomFilterConfig) (*ScalableBloomFilter, error) {
	initialCapacity := cfg.InitialCapacity
	if initialCapacity == 0 {
		initialCapacity = DefaultInitialCapacity
	}
	errorRate := cfg.ErrorRate
	if errorRate == 0 {
		errorRate = DefaultErrorRate
	}
	mode := cfg.Mode
	if mode == 0 {
		mode = SmallSetGrowth
	}

	if err := validateErrorRate(errorRate); err != nil {
		return nil, err
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: mode must be SmallSetGrowth or LargeSetGrowth, got %v", ErrConfig, mode)
	}

	return &ScalableBloomFilter{
		mode:            mode,
		ratio:           tighteningRatio,
		initialCapacity: initialCapacity,
		errorRate:       errorRate,
	}, nil
}

// ErrorRate returns the overall target false-positive rate.
func (s *ScalableBloomFilter) ErrorRate() float64 { return s.errorRate }

// Mode returns the configured growth mode.
func (s *ScalableBloomFilter) Mode() GrowthMode { return s.mode }

// InitialCapacity returns the capacity of the first generation.
func (s *ScalableBloomFilter) InitialCapacity() uint64 { return s.initialCapacity }

// Capacity returns the sum of the capacities of all generations allocated
// so far.
func (s *ScalableBloomFilter) Capacity() uint64 {
	var total uint64
	for _, f := range s.filters {
		total += f.capacity
	}
	return total
}

// Len returns the number of distinct elements added so far, summed across
// all generations.
func (s *ScalableBloomFilter) Len() uint64 {
	var total uint64
	for _, f := range s.filters {
		total += f.count
	}
	return total
}

// NumFilters returns the number of generations allocated so far.
func (s *ScalableBloomFilter) NumFilters() int { return len(s.filters) }

// Contains reports whether key has probably been added to the filter. It
// scans generations newest-first, so a key added recently short-circuits
// quickly; it never returns a false negative.
func (s *ScalableBloomFilter) Contains(key interface{}) bool {
	for i := len(s.filters) - 1; i >= 0; i-- {
		if s.filters[i].Contains(key) {
			return true
		}
	}
	return false
}

// Add inserts key and reports whether it was probably already present.
//
// Add first checks membership across every generation (so Len tracks
// distinct elements, not insert calls); if key is not found, it appends a
// new generation when the active one has reached its capacity, then
// inserts into the active generation with the membership check skipped,
// since the scan above already established that key is novel.
//
// Unlike (*Filter).Add, Add on a ScalableBloomFilter never returns
// ErrSaturated: capacity is grown automatically instead.
func (s *ScalableBloomFilter) Add(key interface{}) (bool, error) {
	if s.Contains(key) {
		return true, nil
	}

	if len(s.filters) == 0 {
		first, err := New(s.initialCapacity, s.errorRate*(1-s.ratio))
		if err != nil {
			return false, err
		}
		s.filters = append(s.filters, first)
	} else if active := s.filters[len(s.filters)-1]; active.count >= active.capacity {
		next, err := New(active.capacity*uint64(s.mode), active.errorRate*s.ratio)
		if err != nil {
			return false, err
		}
		s.filters = append(s.filters, next)
	}

	active := s.filters[len(s.filters)-1]
	if _, err := active.Add(key, true); err != nil {
		return false, err
	}
	return false, nil
}

// String returns a human-readable summary of the filter's configuration
// and the number of generations allocated so far.
func (s *ScalableBloomFilter) String() string {
	return fmt.Sprintf(
		"pbloom.ScalableBloomFilter{mode=%v, error_rate=%g, initial_capacity=%d, generations=%d, len=%d}",
		s.mode, s.errorRate, s.initialCapacity, len(s.filters), s.Len())
}
