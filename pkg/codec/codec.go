// Package codec defines the score serialisation contract trie consumers
// plug in, plus ready-made codecs for the common fixed-width score types.
package codec

import (
	"math"

	"github.com/arnegard/ordtrie/internal/varint"
)

// Codec is the serialisation contract a score (or leaf metadata) type
// must satisfy to be stored in a trie. Implementations must be pure and
// allocation-predictable: they run on every build and every query.
type Codec[S any] interface {
	// FormatID is a stable, unique string embedded in the container file
	// header to reject cross-type loads.
	FormatID() string

	// Serialise appends the encoding of v to out, returning the
	// extended slice.
	Serialise(out []byte, v S) []byte

	// Deserialise decodes one value from the front of buf.
	Deserialise(buf []byte) S

	// Skip returns the number of bytes one encoded value occupies at
	// the front of buf, without fully decoding it.
	Skip(buf []byte) int

	// EstimatedMaxSize is a compile-time (or at least type-time) upper
	// bound on encoded size, used to size builder buffers up front.
	EstimatedMaxSize() int
}

// Unit is the zero-size metadata type used when a leaf carries no
// payload beyond its score.
type Unit struct{}

type unitCodec struct{}

// UnitCodec is the Codec for Unit: it serialises to zero bytes.
func UnitCodec() Codec[Unit] { return unitCodec{} }

func (unitCodec) FormatID() string { return "UNIT" }
func (unitCodec) Serialise(out []byte, _ Unit) []byte { return out }
func (unitCodec) Deserialise(_ []byte) Unit { return Unit{} }
func (unitCodec) Skip(_ []byte) int { return 0 }
func (unitCodec) EstimatedMaxSize() int { return 0 }

// fixedWidth implements Codec for any fixed-size arithmetic type by way
// of a pair of conversion functions to/from a uint64 bit pattern.
type fixedWidth[S any] struct {
	id      string
	size    int
	toBits  func(S) uint64
	fromBts func(uint64) S
}

func (c fixedWidth[S]) FormatID() string { return c.id }
func (c fixedWidth[S]) EstimatedMaxSize() int { return c.size }
func (c fixedWidth[S]) Skip(_ []byte) int { return c.size }

func (c fixedWidth[S]) Serialise(out []byte, v S) []byte {
	n := len(out)
	out = append(out, make([]byte, c.size)...)
	putUintN(out[n:], c.toBits(v), c.size)
	return out
}

func (c fixedWidth[S]) Deserialise(buf []byte) S {
	return c.fromBts(getUintN(buf, c.size))
}

func putUintN(b []byte, v uint64, size int) {
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		varint.Order.PutUint16(b, uint16(v))
	case 4:
		varint.Order.PutUint32(b, uint32(v))
	case 8:
		varint.Order.PutUint64(b, v)
	}
}

func getUintN(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(varint.Order.Uint16(b))
	case 4:
		return uint64(varint.Order.Uint32(b))
	case 8:
		return varint.Order.Uint64(b)
	}
	return 0
}

// Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64 and Float64
// are the built-in codecs for fixed-width score types, mirroring the
// reference implementation's default Serialise specialisations.
func Int8() Codec[int8] {
	return fixedWidth[int8]{
		id: "FIXED_INT_int8", size: 1,
		toBits:  func(v int8) uint64 { return uint64(uint8(v)) },
		fromBts: func(b uint64) int8 { return int8(uint8(b)) },
	}
}

func Uint8() Codec[uint8] {
	return fixedWidth[uint8]{
		id: "FIXED_INT_uint8", size: 1,
		toBits:  func(v uint8) uint64 { return uint64(v) },
		fromBts: func(b uint64) uint8 { return uint8(b) },
	}
}

func Int16() Codec[int16] {
	return fixedWidth[int16]{
		id: "FIXED_INT_int16", size: 2,
		toBits:  func(v int16) uint64 { return uint64(uint16(v)) },
		fromBts: func(b uint64) int16 { return int16(uint16(b)) },
	}
}

func Uint16() Codec[uint16] {
	return fixedWidth[uint16]{
		id: "FIXED_INT_uint16", size: 2,
		toBits:  func(v uint16) uint64 { return uint64(v) },
		fromBts: func(b uint64) uint16 { return uint16(b) },
	}
}

func Int32() Codec[int32] {
	return fixedWidth[int32]{
		id: "FIXED_INT_int32", size: 4,
		toBits:  func(v int32) uint64 { return uint64(uint32(v)) },
		fromBts: func(b uint64) int32 { return int32(uint32(b)) },
	}
}

func Uint32() Codec[uint32] {
	return fixedWidth[uint32]{
		id: "FIXED_INT_uint32", size: 4,
		toBits:  func(v uint32) uint64 { return uint64(v) },
		fromBts: func(b uint64) uint32 { return uint32(b) },
	}
}

func Int64() Codec[int64] {
	return fixedWidth[int64]{
		id: "FIXED_INT_int64", size: 8,
		toBits:  func(v int64) uint64 { return uint64(v) },
		fromBts: func(b uint64) int64 { return int64(b) },
	}
}

func Uint64() Codec[uint64] {
	return fixedWidth[uint64]{
		id: "FIXED_INT_uint64", size: 8,
		toBits:  func(v uint64) uint64 { return v },
		fromBts: func(b uint64) uint64 { return b },
	}
}

// Pair combines a score codec and a metadata codec into one codec over
// (A, B), so a leaf's metadata can ride alongside its score through the
// same score-table indirection instead of needing a second, in-node
// payload slot. This is how per-leaf metadata distinct from score is
// supported: instantiate Trie[Pair[Score, Metadata]] with PairCodec(a,
// b) rather than threading a metadata type through the node encoding.
type Pair[A, B any] struct {
	First  A
	Second B
}

type pairCodec[A, B any] struct {
	a Codec[A]
	b Codec[B]
}

// PairCodec builds the Codec for Pair[A, B] out of its components'
// codecs.
func PairCodec[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	return pairCodec[A, B]{a: a, b: b}
}

func (c pairCodec[A, B]) FormatID() string {
	return "PAIR_" + c.a.FormatID() + "_" + c.b.FormatID()
}

func (c pairCodec[A, B]) EstimatedMaxSize() int {
	return c.a.EstimatedMaxSize() + c.b.EstimatedMaxSize()
}

func (c pairCodec[A, B]) Serialise(out []byte, v Pair[A, B]) []byte {
	out = c.a.Serialise(out, v.First)
	out = c.b.Serialise(out, v.Second)
	return out
}

func (c pairCodec[A, B]) Deserialise(buf []byte) Pair[A, B] {
	a := c.a.Deserialise(buf)
	b := c.b.Deserialise(buf[c.a.Skip(buf):])
	return Pair[A, B]{First: a, Second: b}
}

func (c pairCodec[A, B]) Skip(buf []byte) int {
	return c.a.Skip(buf) + c.b.Skip(buf[c.a.Skip(buf):])
}

func Float64() Codec[float64] {
	return fixedWidth[float64]{
		id: "FIXED_FLOAT_float64", size: 8,
		toBits:  math.Float64bits,
		fromBts: math.Float64frombits,
	}
}
