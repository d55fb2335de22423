// Package ops provides binary-string encodings and genetic operators for the
// sga engine: decoders, objective functions, crossovers and bit mutation.
package ops

import (
	"fmt"
	"math"

	"github.com/cwbudde/sgafit/internal/sga"
)

// MaxChromLength is the longest chromosome whose phenotypes are all exact
// in a float64 mantissa.
const MaxChromLength = 53

// CheckLength rejects chromosome lengths DecodeBinary cannot represent
// exactly.
func CheckLength(length int) error {
	if length > MaxChromLength {
		return &sga.ConfigError{
			Field:  "ChromLength",
			Reason: fmt.Sprintf("must be at most %d for binary decoding, got %d", MaxChromLength, length),
		}
	}
	return nil
}

// DecodeBinary interprets the chromosome as an unsigned integer, most
// significant bit first. Any non-zero allele counts as a set bit.
func DecodeBinary(chrom sga.Chromosome) float64 {
	accum := 0.0
	for _, allele := range chrom {
		accum *= 2
		if allele != 0 {
			accum++
		}
	}
	return accum
}

// MaxPhenotype returns the largest value DecodeBinary yields for a
// chromosome of the given length.
func MaxPhenotype(length int) float64 {
	return math.Pow(2, float64(length)) - 1
}
