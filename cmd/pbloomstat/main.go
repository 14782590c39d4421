// Pbloomstat reports the bit-array geometry a Filter uses for a given
// (capacity, error-rate) pair. It builds a Filter of that size with
// pbloom.New and reads the geometry off it.
package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/pbloom/pbloom"
)

func main() {
	var (
		capacity  uint64
		errorRate float64
	)
	flag.Uint64Var(&capacity, "capacity", 100000, "number of elements the filter must hold")
	flag.Float64Var(&errorRate, "error-rate", 0.001, "target false-positive rate")
	flag.Parse()

	f, err := pbloom.New(capacity, errorRate)
	if err != nil {
		log.Fatal(err)
	}

	bitsPerKey := float64(f.NumBits()) / float64(capacity)
	fmt.Fprintf(os.Stdout,
		"num_slices=%d bits_per_slice=%d num_bits=%d (%.02f bits/key, %.02f B/key)\n",
		f.NumSlices(), f.BitsPerSlice(), f.NumBits(), bitsPerKey, bitsPerKey/8)
}
