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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	all := []error{ErrConfig, ErrSaturated, ErrIncompatible, ErrFormat}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not be %v", a, b)
		}
	}
}

func TestErrorsWrapWithContext(t *testing.T) {
	t.Parallel()

	_, err := New(0, 0.5)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "capacity")
}
