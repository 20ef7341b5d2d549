package mac

// MPDU framer: turns a CSP user packet into a sequence of 128-byte UHF
// frames and reassembles frames back into a user packet on the receive
// side. Partial packets are accumulated in a map keyed by the header's
// identifying fields, completing once every expected fragment has arrived.

// FrameLength is the fixed wire size of one MPDU: a 9-byte Golay-protected
// header followed by MTU bytes of codeword-fragment payload.
const FrameLength = 128

// MTU is the payload capacity of a single frame, 128 minus the 9-byte
// header.
const MTU = FrameLength - 9

// MaxUserPacketLength is the largest user packet this framer accepts.
// The user_packet_length header field is 12 bits wide (0-4095), one
// short of the 4096-byte CSP MTU assumed upstream of this MAC; this MAC
// carries that field literally and so rejects a 4096th byte rather than
// silently wrapping or overloading the field's zero value (which already
// means "empty packet"). See DESIGN.md for the full reasoning on this
// header/MTU width mismatch.
const MaxUserPacketLength = 4095

func encodedUserPacketLength(n int) uint16 {
	return uint16(n)
}

// Framer turns CSP user packets into MPDU frames (Transmit) for a fixed
// scheme/RF mode, and reassembles frames of any scheme back into user
// packets (Receive). continuousMax is the codeword bit length used for
// continuous schemes (NO_FEC, the convolutional family); callers
// transmitting over this MAC's 119-byte MTU always pass 952 (119*8), the
// largest codeword that still fits in a single frame fragment.
type Framer struct {
	Scheme        Scheme
	RfMode        RfMode
	ContinuousMax uint32

	codewords map[codewordKey]*codewordAssembly
	packets   map[packetKey]*packetAssembly
}

type codewordKey struct {
	scheme      Scheme
	upl         uint16
	upfi        uint8
}

type codewordAssembly struct {
	fragments map[uint8][]byte
	total     uint32 // total fragments expected, once known
}

type packetKey struct {
	scheme Scheme
	upl    uint16
}

type packetAssembly struct {
	codewords map[uint8][]byte
}

// NewFramer constructs a Framer configured to transmit with the given
// scheme and RF mode. continuousMax should normally be MTU*8 (952).
func NewFramer(scheme Scheme, rfMode RfMode, continuousMax uint32) (*Framer, error) {
	if !scheme.IsValid() {
		return nil, ErrInvalidScheme
	}
	if !rfMode.IsValid() {
		return nil, ErrBadFormat
	}
	return &Framer{
		Scheme:        scheme,
		RfMode:        rfMode,
		ContinuousMax: continuousMax,
		codewords:     make(map[codewordKey]*codewordAssembly),
		packets:       make(map[packetKey]*packetAssembly),
	}, nil
}

// NumberOfMpdus returns how many 128-byte frames TransmitPacket would
// emit for a user packet of userPacketLength bytes under f's configured
// scheme, without actually building them: ceil(userBits/messageBits)
// codewords, each split into ceil(codewordBytes/MTU) frame fragments.
func (f *Framer) NumberOfMpdus(userPacketLength uint32) (uint32, error) {
	messageBits, err := f.Scheme.MessageBits(f.ContinuousMax)
	if err != nil {
		return 0, err
	}
	codewordBits, err := f.Scheme.CodewordBits(f.ContinuousMax)
	if err != nil {
		return 0, err
	}
	codewordBytes := ceilDiv(codewordBits, 8)
	fragmentsPerCodeword := f.Scheme.NumCodewordFragments(codewordBytes, MTU)

	numCodewords := ceilDiv(userPacketLength*8, messageBits)
	if numCodewords == 0 {
		numCodewords = 1
	}
	return numCodewords * fragmentsPerCodeword, nil
}

// TransmitPacket fragments a user packet into complete 128-byte MPDU
// frames, in ascending (user_packet_fragment_index, codeword_fragment_index)
// order.
func (f *Framer) TransmitPacket(userPacket []byte) ([][]byte, error) {
	if len(userPacket) > MaxUserPacketLength {
		return nil, ErrBadFormat
	}

	messageBits, err := f.Scheme.MessageBits(f.ContinuousMax)
	if err != nil {
		return nil, err
	}
	if messageBits == 0 {
		return nil, ErrNotImplemented
	}

	bits := UnpackBits(userPacket, len(userPacket)*8)
	numCodewords := ceilDiv(uint32(len(bits)), messageBits)
	if numCodewords == 0 {
		numCodewords = 1
	}
	if numCodewords > 256 {
		return nil, ErrBadFormat
	}

	upl := encodedUserPacketLength(len(userPacket))
	var frames [][]byte

	for cwIdx := uint32(0); cwIdx < numCodewords; cwIdx++ {
		start := int(cwIdx * messageBits)
		end := start + int(messageBits)
		if end > len(bits) {
			end = len(bits)
		}
		chunk := make([]bool, messageBits)
		copy(chunk, bits[start:end])
		dataBytes := PackBits(chunk)

		codewordBytes, err := Encode(f.Scheme, dataBytes, f.ContinuousMax)
		if err != nil {
			return nil, err
		}

		fragCount := f.Scheme.NumCodewordFragments(uint32(len(codewordBytes)), MTU)
		for fragIdx := uint32(0); fragIdx < fragCount; fragIdx++ {
			fStart := int(fragIdx) * MTU
			fEnd := fStart + MTU
			if fEnd > len(codewordBytes) {
				fEnd = len(codewordBytes)
			}
			payload := make([]byte, MTU)
			copy(payload, codewordBytes[fStart:fEnd])

			header := Header{
				RfMode:                  f.RfMode,
				EcScheme:                f.Scheme,
				CodewordFragmentIndex:   uint8(fragIdx),
				UserPacketLength:        upl,
				UserPacketFragmentIndex: uint8(cwIdx),
			}
			wire, err := EncodeHeader(header)
			if err != nil {
				return nil, err
			}
			frame := make([]byte, 0, FrameLength)
			frame = append(frame, wire...)
			frame = append(frame, payload...)
			frames = append(frames, frame)
		}
	}
	return frames, nil
}

// ReceiveFrame feeds one 128-byte frame into the reassembly state
// machine. It returns (packet, true, nil) once a complete user packet has
// been reassembled, (nil, false, nil) while more fragments are still
// expected, or a non-nil error for a malformed frame or uncorrectable
// header — such frames are simply dropped by the caller, not treated as
// fatal to the channel.
func (f *Framer) ReceiveFrame(frame []byte) ([]byte, bool, error) {
	if len(frame) != FrameLength {
		return nil, false, ErrBadFormat
	}
	header, err := DecodeHeader(frame[:9])
	if err != nil {
		return nil, false, err
	}
	payload := frame[9:]

	cwKey := codewordKey{scheme: header.EcScheme, upl: header.UserPacketLength, upfi: header.UserPacketFragmentIndex}
	cw, ok := f.codewords[cwKey]
	if !ok {
		cw = &codewordAssembly{fragments: make(map[uint8][]byte)}
		f.codewords[cwKey] = cw
	}
	cw.fragments[header.CodewordFragmentIndex] = append([]byte(nil), payload...)

	codewordBits, err := header.EcScheme.CodewordBits(f.ContinuousMax)
	if err != nil {
		return nil, false, err
	}
	codewordBytes := ceilDiv(codewordBits, 8)
	cw.total = header.EcScheme.NumCodewordFragments(codewordBytes, MTU)

	if uint32(len(cw.fragments)) < cw.total {
		return nil, false, nil
	}
	assembled := make([]byte, 0, cw.total*MTU)
	for i := uint32(0); i < cw.total; i++ {
		frag, ok := cw.fragments[uint8(i)]
		if !ok {
			return nil, false, nil
		}
		assembled = append(assembled, frag...)
	}
	delete(f.codewords, cwKey)
	assembled = assembled[:codewordBytes]

	messageBits, err := header.EcScheme.MessageBits(f.ContinuousMax)
	if err != nil {
		return nil, false, err
	}
	decodedBytes, _, err := Decode(header.EcScheme, assembled, f.ContinuousMax, 0)
	if err != nil {
		return nil, false, err
	}
	decodedBytes = decodedBytes[:ceilDiv(messageBits, 8)]

	pKey := packetKey{scheme: header.EcScheme, upl: header.UserPacketLength}
	pkt, ok := f.packets[pKey]
	if !ok {
		pkt = &packetAssembly{codewords: make(map[uint8][]byte)}
		f.packets[pKey] = pkt
	}
	pkt.codewords[header.UserPacketFragmentIndex] = decodedBytes

	expected, err := numCodewordsFor(header.EcScheme, f.ContinuousMax, uint32(header.UserPacketLength))
	if err != nil {
		return nil, false, err
	}
	if uint32(len(pkt.codewords)) < expected {
		return nil, false, nil
	}

	packetBits := make([]byte, 0, expected*MTU)
	for i := uint32(0); i < expected; i++ {
		cwBytes, ok := pkt.codewords[uint8(i)]
		if !ok {
			return nil, false, nil
		}
		packetBits = append(packetBits, cwBytes...)
	}
	delete(f.packets, pKey)

	length := int(header.UserPacketLength)
	if length > len(packetBits) {
		length = len(packetBits)
	}
	return packetBits[:length], true, nil
}

// numCodewordsFor computes how many codewords a packet of length bytes
// splits into under scheme, the same arithmetic NumberOfMpdus uses but
// keyed off an arbitrary scheme (the one advertised in an incoming
// header) rather than f's own transmit-side scheme.
func numCodewordsFor(scheme Scheme, continuousMax uint32, length uint32) (uint32, error) {
	messageBits, err := scheme.MessageBits(continuousMax)
	if err != nil {
		return 0, err
	}
	n := ceilDiv(length*8, messageBits)
	if n == 0 {
		n = 1
	}
	return n, nil
}
