// Package serial turns finished frames into the timed bit-stream the
// downstream shift-register chain expects, and keeps that stream flowing
// through double-buffered hardware transfers without output gaps.
package serial

// Each element consumes 24 data bits, most significant bit first, in the
// chip's physical channel order: Green, Red, Blue. Every data bit is widened
// to a three-bit line symbol whose leading high edge and trailing low tail
// carry the shift-clock framing, so the sync pattern is part of every output
// word rather than a separate signal:
//
//	data 1 -> 110 (long high)
//	data 0 -> 100 (short high)
//
// A run of zero symbols after the last element holds the line low long
// enough for the chain to latch the frame.
const (
	symbolOne  = 0b110
	symbolZero = 0b100
	symbolBits = 3

	// EncodedBytesPerElement is 24 data bits * 3 symbol bits / 8.
	EncodedBytesPerElement = 9

	// latchBytes of idle line after the stream; at 2.4 MHz this is ~425 us,
	// comfortably past the >=280 us the chips need.
	latchBytes = 128
)

// encoder expands software RGB triples into line symbols via a byte LUT.
type encoder struct {
	lut [256][3]byte
}

func newEncoder() *encoder {
	e := &encoder{}
	for v := 0; v < 256; v++ {
		var packed uint32
		for bit := 7; bit >= 0; bit-- {
			sym := uint32(symbolZero)
			if v>>bit&1 == 1 {
				sym = symbolOne
			}
			packed = packed<<symbolBits | sym
		}
		e.lut[v][0] = byte(packed >> 16)
		e.lut[v][1] = byte(packed >> 8)
		e.lut[v][2] = byte(packed)
	}
	return e
}

// encodedSize returns the buffer size for count elements plus the latch tail.
func encodedSize(count int) int {
	return count*EncodedBytesPerElement + latchBytes
}

// encode fills dst with the full bit-stream for rgb (len 3*count), reordering
// each software R,G,B triple into the wire's G,R,B order. dst must be
// encodedSize(count) bytes; the latch tail is zeroed.
func (e *encoder) encode(rgb, dst []byte) {
	off := 0
	for i := 0; i+2 < len(rgb); i += 3 {
		for _, v := range [3]byte{rgb[i+1], rgb[i], rgb[i+2]} { // G, R, B
			dst[off+0] = e.lut[v][0]
			dst[off+1] = e.lut[v][1]
			dst[off+2] = e.lut[v][2]
			off += 3
		}
	}
	tail := dst[off:]
	for i := range tail {
		tail[i] = 0
	}
}
