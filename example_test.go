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

package pbloom_test

import (
	"fmt"

	"github.com/pbloom/pbloom"
)

func Example() {
	f, err := pbloom.New(10000, 0.001)
	if err != nil {
		panic(err)
	}

	messages := []string{
		"Hello!",
		"Welcome!",
		"Mind your step!",
	}

	for _, msg := range messages {
		if _, err := f.Add(msg, false); err != nil {
			panic(err)
		}
	}

	for _, msg := range messages {
		if f.Contains(msg) {
			fmt.Println(msg)
		} else {
			panic("Bloom filter didn't get the message")
		}
	}

	// Output:
	// Hello!
	// Welcome!
	// Mind your step!
}

func ExampleScalableBloomFilter() {
	// A ScalableBloomFilter is useful when the eventual size of the set
	// isn't known up front: it grows by appending new generations instead
	// of requiring an a-priori capacity.
	sbf, err := pbloom.NewScalable(pbloom.ScalableBloomFilterConfig{
		InitialCapacity: 100,
		ErrorRate:       0.001,
		Mode:            pbloom.SmallSetGrowth,
	})
	if err != nil {
		panic(err)
	}

	for i := 0; i < 1000; i++ {
		if _, err := sbf.Add(i); err != nil {
			panic(err)
		}
	}

	fmt.Println(sbf.Contains(42))
	fmt.Println(sbf.Contains(-1))

	// Output:
	// true
	// false
}
