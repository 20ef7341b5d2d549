package mac

// MPDU header: 36 information bits (rf_mode, ec_scheme,
// codeword_fragment_index, user_packet_length, user_packet_fragment_index)
// split into three consecutive 12-bit groups, each independently protected
// by a Golay(24,12) codeword, concatenated into a 9-byte wire header.
// Splits a small struct of fields into fixed-width groups, Golay-encodes
// each one, and concatenates them, the same shape M17's Link Information
// Channel encoding uses for its own field groups.

// Header is the decoded contents of an MPDU header.
type Header struct {
	RfMode                  RfMode
	EcScheme                Scheme
	CodewordFragmentIndex   uint8 // 7 bits: 0-127
	UserPacketLength        uint16 // 12 bits: 0-4095
	UserPacketFragmentIndex uint8 // 8 bits: 0-255
}

// EncodeHeader packs h into the 9-byte wire header: 36 info bits split
// MSB-first into three 12-bit groups, each Golay(24,12) encoded.
func EncodeHeader(h Header) ([]byte, error) {
	if !h.RfMode.IsValid() {
		return nil, ErrBadFormat
	}
	if !h.EcScheme.IsValid() {
		return nil, ErrInvalidScheme
	}
	if h.CodewordFragmentIndex > 0x7F {
		return nil, ErrBadFormat
	}
	if h.UserPacketLength > 0xFFF {
		return nil, ErrBadFormat
	}

	bits := headerBits(h)

	group1 := bitsToUint16(bits[0:12])
	group2 := bitsToUint16(bits[12:24])
	group3 := bitsToUint16(bits[24:36])

	cw1 := golayEncode(group1)
	cw2 := golayEncode(group2)
	cw3 := golayEncode(group3)

	out := make([]byte, 9)
	putUint24(out[0:3], cw1)
	putUint24(out[3:6], cw2)
	putUint24(out[6:9], cw3)
	return out, nil
}

// DecodeHeader unpacks a 9-byte wire header, Golay-decoding each of the
// three 12-bit groups independently. If any group is uncorrectable
// (4+ bit errors detected), it returns ErrHeaderCorrupt: the frame this
// header came with must be dropped.
func DecodeHeader(wire []byte) (Header, error) {
	if len(wire) != 9 {
		return Header{}, ErrBadFormat
	}

	cw1 := getUint24(wire[0:3])
	cw2 := getUint24(wire[3:6])
	cw3 := getUint24(wire[6:9])

	group1, ok1, _ := golayDecode(cw1)
	group2, ok2, _ := golayDecode(cw2)
	group3, ok3, _ := golayDecode(cw3)
	if !ok1 || !ok2 || !ok3 {
		return Header{}, ErrHeaderCorrupt
	}

	var bits [36]bool
	uint16ToBits(group1, bits[0:12])
	uint16ToBits(group2, bits[12:24])
	uint16ToBits(group3, bits[24:36])

	h := Header{
		RfMode:                  RfMode(bitsToUint16(bits[0:3])),
		EcScheme:                Scheme(bitsToUint16(bits[3:9])),
		CodewordFragmentIndex:   uint8(bitsToUint16(bits[9:16])),
		UserPacketLength:        bitsToUint16(bits[16:28]),
		UserPacketFragmentIndex: uint8(bitsToUint16(bits[28:36])),
	}
	if !h.RfMode.IsValid() {
		return Header{}, ErrBadFormat
	}
	if !h.EcScheme.IsValid() {
		return Header{}, ErrInvalidScheme
	}
	return h, nil
}

// headerBits lays out h's 36 information bits MSB-first:
// rf_mode(3) || ec_scheme(6) || codeword_fragment_index(7) ||
// user_packet_length(12) || user_packet_fragment_index(8).
func headerBits(h Header) [36]bool {
	var bits [36]bool
	uint16ToBits(uint16(h.RfMode), bits[0:3])
	uint16ToBits(uint16(h.EcScheme), bits[3:9])
	uint16ToBits(uint16(h.CodewordFragmentIndex), bits[9:16])
	uint16ToBits(h.UserPacketLength, bits[16:28])
	uint16ToBits(uint16(h.UserPacketFragmentIndex), bits[28:36])
	return bits
}

// bitsToUint16 packs an MSB-first bool slice (up to 16 bits) into a uint16.
func bitsToUint16(bits []bool) uint16 {
	var v uint16
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// uint16ToBits unpacks the low len(dst) bits of v MSB-first into dst.
func uint16ToBits(v uint16, dst []bool) {
	for i := range dst {
		shift := uint(len(dst) - 1 - i)
		dst[i] = (v>>shift)&1 != 0
	}
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

func getUint24(src []byte) uint32 {
	return uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
}
