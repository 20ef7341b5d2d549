package mac

// PPDU holds a bit sequence packed at a given number of bits per octet.
// At 1 bit/octet each element of Bits is 0 or 1, one bit per byte; at 8
// bits/octet Bits is the ordinary packed-byte representation. Bit 0 of
// octet 0 in the 1-bit form is the MSB of octet 0 in the 8-bit form.
type PPDU struct {
	Bits        []byte
	BitsPerOctet uint8
	// BitLength is the number of meaningful bits. When that count is not a
	// multiple of BitsPerOctet, Repack leaves the meaningful bits of the
	// final octet in its high-order positions and zero-fills its low-order
	// bits (the MSBs are not the padded ones); this records the true count.
	BitLength int
}

// supportedTags lists the bits-per-octet values the packer accepts.
var supportedTags = map[uint8]bool{1: true, 2: true, 4: true, 8: true}

// NewPPDU8 wraps a packed-byte slice (8 bits/octet) as a PPDU.
func NewPPDU8(data []byte) PPDU {
	b := make([]byte, len(data))
	copy(b, data)
	return PPDU{Bits: b, BitsPerOctet: 8, BitLength: len(data) * 8}
}

// Repack converts p to a new PPDU at toBitsPerOctet bits/octet. Repacking
// is lossless: Repack(Repack(x, 1), 8) == x whenever x's bit length is a
// multiple of 8; otherwise the low-order bits of the final octet are
// zero-padded and BitLength records the true number of meaningful bits.
func (p PPDU) Repack(toBitsPerOctet uint8) (PPDU, error) {
	if !supportedTags[p.BitsPerOctet] || !supportedTags[toBitsPerOctet] {
		return PPDU{}, ErrBadFormat
	}
	bits := p.toBitstream()
	out := bitsToOctets(bits, toBitsPerOctet)
	return PPDU{Bits: out, BitsPerOctet: toBitsPerOctet, BitLength: len(bits)}, nil
}

// toBitstream expands p to a 1-bit-per-octet MSB-first bool slice of
// length p.BitLength.
func (p PPDU) toBitstream() []bool {
	bits := make([]bool, 0, len(p.Bits)*int(p.BitsPerOctet))
	for _, octet := range p.Bits {
		for i := int(p.BitsPerOctet) - 1; i >= 0; i-- {
			bits = append(bits, (octet>>uint(i))&1 != 0)
		}
	}
	if p.BitLength > 0 && p.BitLength < len(bits) {
		bits = bits[:p.BitLength]
	}
	return bits
}

// bitsToOctets packs an MSB-first bool slice into octets of bitsPerOctet
// width, zero-padding the final octet's low-order bits as needed.
func bitsToOctets(bits []bool, bitsPerOctet uint8) []byte {
	n := ceilDiv(len(bits), int(bitsPerOctet))
	out := make([]byte, n)
	for i, bit := range bits {
		octetIdx := i / int(bitsPerOctet)
		shift := int(bitsPerOctet) - 1 - (i % int(bitsPerOctet))
		if bit {
			out[octetIdx] |= 1 << uint(shift)
		}
	}
	return out
}

// PackBits packs an MSB-first bool slice directly into 8-bit octets.
func PackBits(bits []bool) []byte {
	return bitsToOctets(bits, 8)
}

// UnpackBits expands packed bytes into an MSB-first bool slice of exactly
// bitLen bits (bitLen <= len(data)*8).
func UnpackBits(data []byte, bitLen int) []bool {
	p := PPDU{Bits: data, BitsPerOctet: 8, BitLength: len(data) * 8}
	bits := p.toBitstream()
	if bitLen < len(bits) {
		bits = bits[:bitLen]
	}
	return bits
}
