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

import "errors"

// Sentinel errors identifying the distinct, observable error kinds of the
// package. Use errors.Is to test for a specific kind; errors returned by
// this package wrap one of these with additional context via fmt.Errorf's
// %w verb.
var (
	// ErrConfig is returned by New/NewScalable when a construction
	// parameter is out of range (error rate not in (0,1), non-positive
	// capacity, or an unrecognized growth mode).
	ErrConfig = errors.New("pbloom: invalid configuration")

	// ErrSaturated is returned by (*Filter).Add when the filter has
	// already accepted more elements than its capacity.
	ErrSaturated = errors.New("pbloom: filter is at capacity")

	// ErrIncompatible is returned by Union/Intersection when the operand
	// filters do not share identical geometry.
	ErrIncompatible = errors.New("pbloom: filters are not compatible")

	// ErrFormat is returned when a serialized stream is malformed: wrong
	// length, or a bit count that doesn't match the stored geometry.
	ErrFormat = errors.New("pbloom: malformed serialized filter")
)
