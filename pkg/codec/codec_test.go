package codec

import "testing"

func TestFixedWidthRoundTrip(t *testing.T) {
	t.Run("int8", func(t *testing.T) {
		c := Int8()
		for _, v := range []int8{0, 1, -1, 127, -128} {
			buf := c.Serialise(nil, v)
			if len(buf) != c.EstimatedMaxSize() {
				t.Fatalf("Serialise(%d) produced %d bytes, want %d", v, len(buf), c.EstimatedMaxSize())
			}
			if got := c.Deserialise(buf); got != v {
				t.Errorf("Deserialise(Serialise(%d)) = %d", v, got)
			}
			if c.Skip(buf) != len(buf) {
				t.Errorf("Skip(%d) = %d, want %d", v, c.Skip(buf), len(buf))
			}
		}
	})

	t.Run("uint16", func(t *testing.T) {
		c := Uint16()
		for _, v := range []uint16{0, 1, 0xFF, 0xFFFF} {
			buf := c.Serialise(nil, v)
			if got := c.Deserialise(buf); got != v {
				t.Errorf("Deserialise(Serialise(%d)) = %d", v, got)
			}
		}
	})

	t.Run("int32", func(t *testing.T) {
		c := Int32()
		for _, v := range []int32{0, -1, 1 << 20, -(1 << 20)} {
			buf := c.Serialise(nil, v)
			if got := c.Deserialise(buf); got != v {
				t.Errorf("Deserialise(Serialise(%d)) = %d", v, got)
			}
		}
	})

	t.Run("uint64", func(t *testing.T) {
		c := Uint64()
		for _, v := range []uint64{0, 1, 1 << 40, 0xFFFFFFFFFFFFFFFF} {
			buf := c.Serialise(nil, v)
			if got := c.Deserialise(buf); got != v {
				t.Errorf("Deserialise(Serialise(%d)) = %d", v, got)
			}
		}
	})

	t.Run("float64", func(t *testing.T) {
		c := Float64()
		for _, v := range []float64{0, 1.5, -3.25, 1e300} {
			buf := c.Serialise(nil, v)
			if got := c.Deserialise(buf); got != v {
				t.Errorf("Deserialise(Serialise(%v)) = %v", v, got)
			}
		}
	})
}

func TestUnitCodec(t *testing.T) {
	c := UnitCodec()
	buf := c.Serialise([]byte("x"), Unit{})
	if len(buf) != 1 {
		t.Fatalf("UnitCodec.Serialise appended bytes, got len %d", len(buf))
	}
	if c.EstimatedMaxSize() != 0 || c.Skip(nil) != 0 {
		t.Errorf("UnitCodec should be zero-size")
	}
}

func TestPairCodecRoundTrip(t *testing.T) {
	c := PairCodec(Uint32(), Int16())

	v := Pair[uint32, int16]{First: 12345, Second: -99}
	buf := c.Serialise(nil, v)

	if got := c.Deserialise(buf); got != v {
		t.Errorf("Deserialise(Serialise(%v)) = %v", v, got)
	}
	if c.Skip(buf) != len(buf) {
		t.Errorf("Skip = %d, want %d", c.Skip(buf), len(buf))
	}
	if c.FormatID() != "PAIR_FIXED_INT_uint32_FIXED_INT_int16" {
		t.Errorf("FormatID = %q", c.FormatID())
	}
}

func TestPairCodecConsecutive(t *testing.T) {
	c := PairCodec(Uint8(), Uint8())

	buf := c.Serialise(nil, Pair[uint8, uint8]{First: 1, Second: 2})
	buf = c.Serialise(buf, Pair[uint8, uint8]{First: 3, Second: 4})

	first := c.Deserialise(buf)
	rest := buf[c.Skip(buf):]
	second := c.Deserialise(rest)

	if first != (Pair[uint8, uint8]{1, 2}) || second != (Pair[uint8, uint8]{3, 4}) {
		t.Errorf("got %v, %v", first, second)
	}
}
