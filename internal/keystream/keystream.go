// Package keystream implements the tent-map keystream generator that transforms container payloads.
//
// The generator is a tent map lifted onto the unsigned 64-bit range with a per-step additive
// perturbation. The emitted sequence depends only on the seed and the number of words emitted
// so far, so a stream may be processed in chunks of any word-aligned size.
package keystream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// WordSize is the number of bytes consumed per emitted word.
const WordSize = 8

// half separates the doubling branch from the reflecting branch of the map.
const half = uint64(1) << 63

// State is a snapshot of the generator.
type State struct {
	// Value is the current chaotic state.
	Value uint64
	// Steps is the number of words emitted since construction.
	Steps uint64
}

// Generator produces the keystream. It is not safe for concurrent use.
type Generator struct {
	state State
}

// New creates a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{state: State{Value: seed}}
}

// Step advances the generator by one word and returns it.
func (g *Generator) Step() uint64 {
	x := g.state.Value + g.state.Steps*4

	// Both branches shift by exactly one bit. Existing containers were written with this
	// formula, so changing the shift makes them undecryptable.
	if x < half {
		g.state.Value = x<<1 | 1
	} else {
		g.state.Value = (math.MaxUint64 - x) << 1
	}

	g.state.Steps++

	return g.state.Value
}

// Materialize fills out with the next n words.
func (g *Generator) Materialize(n int, out []uint64) error {
	if len(out) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, n, len(out))
	}

	for i := range out {
		out[i] = g.Step()
	}

	return nil
}

// ApplyXOR XORs buf in place with the keystream, reading buf as consecutive little-endian words.
// Applying it twice from the same state restores the input.
func (g *Generator) ApplyXOR(buf []byte) error {
	if len(buf)%WordSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrAlignment, len(buf))
	}

	for off := 0; off < len(buf); off += WordSize {
		word := binary.LittleEndian.Uint64(buf[off:])
		binary.LittleEndian.PutUint64(buf[off:], word^g.Step())
	}

	return nil
}

// State returns a snapshot of the generator.
func (g *Generator) State() State {
	return g.state
}

// Align rounds n up to the next multiple of WordSize.
func Align(n int) int {
	return (n + WordSize - 1) &^ (WordSize - 1)
}
