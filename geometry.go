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
	"fmt"
	"math"
)

// geometry holds the derived, immutable sizing of a Filter.
type geometry struct {
	numSlices    uint64
	bitsPerSlice uint64
}

// numBits is the total number of bits across all slices.
func (g geometry) numBits() uint64 {
	return g.numSlices * g.bitsPerSlice
}

// sizeFilter derives a Filter's geometry from (capacity, errorRate),
// following §3 of the spec:
//
//	numSlices    = ceil(log2(1 / errorRate))
//	bitsPerSlice = ceil(capacity * |ln(errorRate)| / (numSlices * ln(2)^2))
func sizeFilter(capacity uint64, errorRate float64) (geometry, error) {
	if err := validateErrorRate(errorRate); err != nil {
		return geometry{}, err
	}
	if capacity == 0 {
		return geometry{}, fmt.Errorf("%w: capacity must be > 0, got 0", ErrConfig)
	}

	numSlices := uint64(math.Ceil(math.Log2(1.0 / errorRate)))
	if numSlices < 1 {
		numSlices = 1
	}

	bitsPerSlice := uint64(math.Ceil(
		(float64(capacity) * math.Abs(math.Log(errorRate))) /
			(float64(numSlices) * ln2Squared)))
	if bitsPerSlice < 1 {
		bitsPerSlice = 1
	}

	return geometry{numSlices: numSlices, bitsPerSlice: bitsPerSlice}, nil
}

const ln2Squared = math.Ln2 * math.Ln2

func validateErrorRate(errorRate float64) error {
	if !(errorRate > 0 && errorRate < 1) {
		return fmt.Errorf("%w: error_rate must be in (0,1), got %v", ErrConfig, errorRate)
	}
	return nil
}
