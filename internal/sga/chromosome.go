package sga

import (
	"strconv"
	"strings"
)

// Chromosome is an ordered sequence of alleles, typically 0/1 bits.
type Chromosome []int

// NewChromosome allocates an empty chromosome with room for length alleles.
func NewChromosome(length int) Chromosome {
	return make(Chromosome, 0, length)
}

// Len returns the number of alleles.
func (c Chromosome) Len() int {
	return len(c)
}

// At returns the allele at locus i.
func (c Chromosome) At(i int) int {
	return c[i]
}

// Set stores v at locus i. Setting at or past the end appends, so a chromosome
// is filled 0..L-1 in order without gaps.
func (c *Chromosome) Set(i, v int) {
	if i >= len(*c) {
		*c = append(*c, v)
		return
	}
	(*c)[i] = v
}

// Clone returns a deep copy.
func (c Chromosome) Clone() Chromosome {
	if c == nil {
		return nil
	}
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

func (c Chromosome) String() string {
	if len(c) == 0 {
		return "<empty>"
	}
	var b strings.Builder
	for _, a := range c {
		b.WriteString(strconv.Itoa(a))
		b.WriteByte(':')
	}
	return b.String()
}
