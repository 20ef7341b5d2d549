package mac

// Error-correction scheme registry. Every scheme is identified by a 6-bit
// wire tag (the ec_scheme field of the MPDU header) and carries a coding
// rate plus the (codeword_bits, message_bits) pair a framer needs to
// compute fragment counts. Block codes (Reed-Solomon, Turbo, LDPC) have a
// fixed codeword/message size; the convolutional code and the no-FEC
// passthrough are continuous and size to whatever continuousMax the
// caller is packing toward (one MPDU payload's worth of bits).

// Scheme is the wire tag for an ErrorCorrectionScheme, values 0-63.
type Scheme uint8

const (
	NO_FEC Scheme = iota

	CCSDS_CONV_R1_2
	CCSDS_CONV_R2_3
	CCSDS_CONV_R3_4
	CCSDS_CONV_R5_6
	CCSDS_CONV_R7_8

	CCSDS_RS_255_239_I1
	CCSDS_RS_255_239_I2
	CCSDS_RS_255_239_I3
	CCSDS_RS_255_239_I4
	CCSDS_RS_255_239_I5
	CCSDS_RS_255_239_I8

	CCSDS_RS_255_223_I1
	CCSDS_RS_255_223_I2
	CCSDS_RS_255_223_I3
	CCSDS_RS_255_223_I4
	CCSDS_RS_255_223_I5
	CCSDS_RS_255_223_I8

	CCSDS_TURBO_1784_R1_2
	CCSDS_TURBO_1784_R1_3
	CCSDS_TURBO_1784_R1_4
	CCSDS_TURBO_1784_R1_6
	CCSDS_TURBO_3568_R1_2
	CCSDS_TURBO_3568_R1_3
	CCSDS_TURBO_3568_R1_4
	CCSDS_TURBO_3568_R1_6
	CCSDS_TURBO_7136_R1_2
	CCSDS_TURBO_7136_R1_3
	CCSDS_TURBO_7136_R1_4
	CCSDS_TURBO_7136_R1_6
	CCSDS_TURBO_8920_R1_2
	CCSDS_TURBO_8920_R1_3
	CCSDS_TURBO_8920_R1_4
	CCSDS_TURBO_8920_R1_6

	CCSDS_LDPC_ORANGE_1280
	CCSDS_LDPC_ORANGE_1536
	CCSDS_LDPC_ORANGE_2048

	IEEE80211N_QCLDPC_648_R1_2
	IEEE80211N_QCLDPC_648_R2_3
	IEEE80211N_QCLDPC_648_R3_4
	IEEE80211N_QCLDPC_648_R5_6
	IEEE80211N_QCLDPC_1296_R1_2
	IEEE80211N_QCLDPC_1296_R2_3
	IEEE80211N_QCLDPC_1296_R3_4
	IEEE80211N_QCLDPC_1296_R5_6
	IEEE80211N_QCLDPC_1944_R1_2
	IEEE80211N_QCLDPC_1944_R2_3
	IEEE80211N_QCLDPC_1944_R3_4
	IEEE80211N_QCLDPC_1944_R5_6

	schemeCount
)

// convConstraintLen is K for the CCSDS K=7 R=1/2 convolutional code family;
// every derived rate is punctured from the same mother code, so all five
// convolutional schemes share the same 6-bit tail (K-1).
const convConstraintLen = 7

// schemeEntry describes one scheme's rate and, for block codes, its fixed
// (codeword, message) bit sizes. continuous schemes (NO_FEC and the
// convolutional family) leave codewordBits/messageBits at zero: their
// sizes depend on the caller's continuousMax and are computed on the fly.
type schemeEntry struct {
	rate        CodingRate
	continuous  bool
	codewordBits uint32 // 0 for continuous schemes
	messageBits uint32  // 0 for continuous schemes
}

var schemeTable = map[Scheme]schemeEntry{
	NO_FEC: {rate: Rate1, continuous: true},

	CCSDS_CONV_R1_2: {rate: Rate1_2, continuous: true},
	CCSDS_CONV_R2_3: {rate: Rate2_3, continuous: true},
	CCSDS_CONV_R3_4: {rate: Rate3_4, continuous: true},
	CCSDS_CONV_R5_6: {rate: Rate5_6, continuous: true},
	CCSDS_CONV_R7_8: {rate: Rate7_8, continuous: true},

	CCSDS_RS_255_239_I1: rsEntry(1, 239),
	CCSDS_RS_255_239_I2: rsEntry(2, 239),
	CCSDS_RS_255_239_I3: rsEntry(3, 239),
	CCSDS_RS_255_239_I4: rsEntry(4, 239),
	CCSDS_RS_255_239_I5: rsEntry(5, 239),
	CCSDS_RS_255_239_I8: rsEntry(8, 239),

	CCSDS_RS_255_223_I1: rsEntry(1, 223),
	CCSDS_RS_255_223_I2: rsEntry(2, 223),
	CCSDS_RS_255_223_I3: rsEntry(3, 223),
	CCSDS_RS_255_223_I4: rsEntry(4, 223),
	CCSDS_RS_255_223_I5: rsEntry(5, 223),
	CCSDS_RS_255_223_I8: rsEntry(8, 223),

	CCSDS_TURBO_1784_R1_2: turboEntry(1784, Rate1_2),
	CCSDS_TURBO_1784_R1_3: turboEntry(1784, Rate1_3),
	CCSDS_TURBO_1784_R1_4: turboEntry(1784, Rate1_4),
	CCSDS_TURBO_1784_R1_6: turboEntry(1784, Rate1_6),
	CCSDS_TURBO_3568_R1_2: turboEntry(3568, Rate1_2),
	CCSDS_TURBO_3568_R1_3: turboEntry(3568, Rate1_3),
	CCSDS_TURBO_3568_R1_4: turboEntry(3568, Rate1_4),
	CCSDS_TURBO_3568_R1_6: turboEntry(3568, Rate1_6),
	CCSDS_TURBO_7136_R1_2: turboEntry(7136, Rate1_2),
	CCSDS_TURBO_7136_R1_3: turboEntry(7136, Rate1_3),
	CCSDS_TURBO_7136_R1_4: turboEntry(7136, Rate1_4),
	CCSDS_TURBO_7136_R1_6: turboEntry(7136, Rate1_6),
	CCSDS_TURBO_8920_R1_2: turboEntry(8920, Rate1_2),
	CCSDS_TURBO_8920_R1_3: turboEntry(8920, Rate1_3),
	CCSDS_TURBO_8920_R1_4: turboEntry(8920, Rate1_4),
	CCSDS_TURBO_8920_R1_6: turboEntry(8920, Rate1_6),

	// CCSDS 131.1-O-2 AR4JA codes: fixed 1024-bit info block, three
	// redundancy levels selected by codeword length.
	CCSDS_LDPC_ORANGE_1280: {rate: Rate4_5, codewordBits: 1280, messageBits: 1024},
	CCSDS_LDPC_ORANGE_1536: {rate: Rate2_3, codewordBits: 1536, messageBits: 1024},
	CCSDS_LDPC_ORANGE_2048: {rate: Rate1_2, codewordBits: 2048, messageBits: 1024},

	IEEE80211N_QCLDPC_648_R1_2:  qcldpcEntry(648, Rate1_2),
	IEEE80211N_QCLDPC_648_R2_3:  qcldpcEntry(648, Rate2_3),
	IEEE80211N_QCLDPC_648_R3_4:  qcldpcEntry(648, Rate3_4),
	IEEE80211N_QCLDPC_648_R5_6:  qcldpcEntry(648, Rate5_6),
	IEEE80211N_QCLDPC_1296_R1_2: qcldpcEntry(1296, Rate1_2),
	IEEE80211N_QCLDPC_1296_R2_3: qcldpcEntry(1296, Rate2_3),
	IEEE80211N_QCLDPC_1296_R3_4: qcldpcEntry(1296, Rate3_4),
	IEEE80211N_QCLDPC_1296_R5_6: qcldpcEntry(1296, Rate5_6),
	IEEE80211N_QCLDPC_1944_R1_2: qcldpcEntry(1944, Rate1_2),
	IEEE80211N_QCLDPC_1944_R2_3: qcldpcEntry(1944, Rate2_3),
	IEEE80211N_QCLDPC_1944_R3_4: qcldpcEntry(1944, Rate3_4),
	IEEE80211N_QCLDPC_1944_R5_6: qcldpcEntry(1944, Rate5_6),
}

// rsEntry builds a Reed-Solomon(255,k) entry interleaved I deep. Interleaving
// spreads a single (255,k) codeword's symbols across I independently-coded
// blocks to survive burst errors; it does not change the per-codeword bit
// budget, so codewordBits/messageBits stay fixed at the single-block size
// regardless of interleave. Reed-Solomon has no single meaningful
// message/codeword ratio the way a convolutional or LDPC rate does, so the
// scheme reports RateNA rather than a fabricated rate.
func rsEntry(interleave int, k int) schemeEntry {
	_ = interleave
	return schemeEntry{
		rate:         RateNA,
		codewordBits: 255 * 8,
		messageBits:  uint32(k) * 8,
	}
}

// turboEntry builds a CCSDS Turbo entry: blockSize is the fixed number of
// information bits. The codeword length is not a simple blockSize/rate
// ratio: trellis termination adds fixed per-rate overhead, so the lengths
// are the standard's published values rather than a computed ratio.
func turboEntry(blockSize uint32, rate CodingRate) schemeEntry {
	return schemeEntry{
		rate:         rate,
		messageBits:  blockSize,
		codewordBits: turboCodewordBits[turboKey{blockSize, rate}],
	}
}

type turboKey struct {
	blockSize uint32
	rate      CodingRate
}

var turboCodewordBits = map[turboKey]uint32{
	{1784, Rate1_2}: 3576,
	{1784, Rate1_3}: 5364,
	{1784, Rate1_4}: 7152,
	{1784, Rate1_6}: 10728,
	{3568, Rate1_2}: 7144,
	{3568, Rate1_3}: 10716,
	{3568, Rate1_4}: 14288,
	{3568, Rate1_6}: 21432,
	{7136, Rate1_2}: 14280,
	{7136, Rate1_3}: 21420,
	{7136, Rate1_4}: 28560,
	{7136, Rate1_6}: 42840,
	{8920, Rate1_2}: 17848,
	{8920, Rate1_3}: 26772,
	{8920, Rate1_4}: 35696,
	{8920, Rate1_6}: 53544,
}

// qcldpcEntry builds an IEEE 802.11n QC-LDPC entry. The standard defines
// exact integer (n,k) pairs for every (liftSize, rate) combination; n*rate
// is always an integer for the four standard rates.
func qcldpcEntry(n uint32, rate CodingRate) schemeEntry {
	den, num := rateFraction(rate)
	return schemeEntry{
		rate:         rate,
		codewordBits: n,
		messageBits:  n * num / den,
	}
}

// rateFraction returns (denominator, numerator) such that rate == num/den,
// e.g. Rate5_6 -> (6, 5).
func rateFraction(rate CodingRate) (den, num uint32) {
	switch rate {
	case Rate1_6:
		return 6, 1
	case Rate1_5:
		return 5, 1
	case Rate1_4:
		return 4, 1
	case Rate1_3:
		return 3, 1
	case Rate1_2:
		return 2, 1
	case Rate2_3:
		return 3, 2
	case Rate3_4:
		return 4, 3
	case Rate4_5:
		return 5, 4
	case Rate5_6:
		return 6, 5
	case Rate7_8:
		return 8, 7
	case Rate8_9:
		return 9, 8
	default:
		return 1, 1
	}
}

// IsValid reports whether s is a recognised scheme tag.
func (s Scheme) IsValid() bool {
	_, ok := schemeTable[s]
	return ok
}

// Rate returns s's coding rate, or RateBad if s is unrecognised.
func (s Scheme) Rate() CodingRate {
	e, ok := schemeTable[s]
	if !ok {
		return RateBad
	}
	return e.rate
}

// CodewordBits returns the codeword length in bits for s. For continuous
// schemes (NO_FEC and the convolutional family) this sizes to
// continuousMax, the caller's target payload size in bits.
func (s Scheme) CodewordBits(continuousMax uint32) (uint32, error) {
	e, ok := schemeTable[s]
	if !ok {
		return 0, ErrInvalidScheme
	}
	if e.continuous {
		return continuousMax, nil
	}
	return e.codewordBits, nil
}

// MessageBits returns the number of user-data bits carried by one codeword
// of s. For the convolutional family this accounts for the K-1 tail bits
// needed to flush the encoder shift register back to state 0, and is
// floored to a whole byte since the MAC always packs user data on byte
// boundaries. For NO_FEC message_bits == codeword_bits exactly.
func (s Scheme) MessageBits(continuousMax uint32) (uint32, error) {
	e, ok := schemeTable[s]
	if !ok {
		return 0, ErrInvalidScheme
	}
	if !e.continuous {
		return e.messageBits, nil
	}
	if s == NO_FEC {
		return continuousMax, nil
	}
	den, num := rateFraction(e.rate)
	raw := continuousMax * num / den
	tail := uint32(convConstraintLen - 1)
	if raw <= tail {
		return 0, nil
	}
	return floorToByte(raw - tail), nil
}

// NumCodewordFragments returns how many payloadBytes-sized UHF frame
// fragments are needed to carry one codeword of codewordBytes bytes.
// NO_FEC codewords are never split across multiple fragments: the MPDU
// framer only ever builds a NO_FEC codeword that already fits in one
// MTU-sized frame payload.
func (s Scheme) NumCodewordFragments(codewordBytes, payloadBytes uint32) uint32 {
	if s == NO_FEC {
		return 1
	}
	return ceilDiv(codewordBytes, payloadBytes)
}

func (s Scheme) String() string {
	switch s {
	case NO_FEC:
		return "NO_FEC"
	case CCSDS_CONV_R1_2:
		return "CCSDS_CONV_R1_2"
	case CCSDS_CONV_R2_3:
		return "CCSDS_CONV_R2_3"
	case CCSDS_CONV_R3_4:
		return "CCSDS_CONV_R3_4"
	case CCSDS_CONV_R5_6:
		return "CCSDS_CONV_R5_6"
	case CCSDS_CONV_R7_8:
		return "CCSDS_CONV_R7_8"
	default:
		if s.IsValid() {
			return "SCHEME_" + itoa(uint8(s))
		}
		return "SCHEME_UNKNOWN"
	}
}

// schemeNames maps the human-readable scheme names used in configuration
// files and CLI flags to their wire tags. CCSDS_CONVOLUTIONAL_CODING_R_1_2
// is the full name the convolutional R=1/2 scheme is given in channel
// configuration; CCSDS_CONV_R1_2 is accepted as a shorthand alias.
var schemeNames = map[string]Scheme{
	"NO_FEC": NO_FEC,

	"CCSDS_CONVOLUTIONAL_CODING_R_1_2": CCSDS_CONV_R1_2,
	"CCSDS_CONVOLUTIONAL_CODING_R_2_3": CCSDS_CONV_R2_3,
	"CCSDS_CONVOLUTIONAL_CODING_R_3_4": CCSDS_CONV_R3_4,
	"CCSDS_CONVOLUTIONAL_CODING_R_5_6": CCSDS_CONV_R5_6,
	"CCSDS_CONVOLUTIONAL_CODING_R_7_8": CCSDS_CONV_R7_8,
	"CCSDS_CONV_R1_2":                 CCSDS_CONV_R1_2,
	"CCSDS_CONV_R2_3":                 CCSDS_CONV_R2_3,
	"CCSDS_CONV_R3_4":                 CCSDS_CONV_R3_4,
	"CCSDS_CONV_R5_6":                 CCSDS_CONV_R5_6,
	"CCSDS_CONV_R7_8":                 CCSDS_CONV_R7_8,

	"CCSDS_RS_255_239_I1": CCSDS_RS_255_239_I1,
	"CCSDS_RS_255_239_I2": CCSDS_RS_255_239_I2,
	"CCSDS_RS_255_239_I3": CCSDS_RS_255_239_I3,
	"CCSDS_RS_255_239_I4": CCSDS_RS_255_239_I4,
	"CCSDS_RS_255_239_I5": CCSDS_RS_255_239_I5,
	"CCSDS_RS_255_239_I8": CCSDS_RS_255_239_I8,

	"CCSDS_RS_255_223_I1": CCSDS_RS_255_223_I1,
	"CCSDS_RS_255_223_I2": CCSDS_RS_255_223_I2,
	"CCSDS_RS_255_223_I3": CCSDS_RS_255_223_I3,
	"CCSDS_RS_255_223_I4": CCSDS_RS_255_223_I4,
	"CCSDS_RS_255_223_I5": CCSDS_RS_255_223_I5,
	"CCSDS_RS_255_223_I8": CCSDS_RS_255_223_I8,

	"CCSDS_TURBO_1784_R1_2": CCSDS_TURBO_1784_R1_2,
	"CCSDS_TURBO_1784_R1_3": CCSDS_TURBO_1784_R1_3,
	"CCSDS_TURBO_1784_R1_4": CCSDS_TURBO_1784_R1_4,
	"CCSDS_TURBO_1784_R1_6": CCSDS_TURBO_1784_R1_6,
	"CCSDS_TURBO_3568_R1_2": CCSDS_TURBO_3568_R1_2,
	"CCSDS_TURBO_3568_R1_3": CCSDS_TURBO_3568_R1_3,
	"CCSDS_TURBO_3568_R1_4": CCSDS_TURBO_3568_R1_4,
	"CCSDS_TURBO_3568_R1_6": CCSDS_TURBO_3568_R1_6,
	"CCSDS_TURBO_7136_R1_2": CCSDS_TURBO_7136_R1_2,
	"CCSDS_TURBO_7136_R1_3": CCSDS_TURBO_7136_R1_3,
	"CCSDS_TURBO_7136_R1_4": CCSDS_TURBO_7136_R1_4,
	"CCSDS_TURBO_7136_R1_6": CCSDS_TURBO_7136_R1_6,
	"CCSDS_TURBO_8920_R1_2": CCSDS_TURBO_8920_R1_2,
	"CCSDS_TURBO_8920_R1_3": CCSDS_TURBO_8920_R1_3,
	"CCSDS_TURBO_8920_R1_4": CCSDS_TURBO_8920_R1_4,
	"CCSDS_TURBO_8920_R1_6": CCSDS_TURBO_8920_R1_6,

	"CCSDS_LDPC_ORANGE_1280": CCSDS_LDPC_ORANGE_1280,
	"CCSDS_LDPC_ORANGE_1536": CCSDS_LDPC_ORANGE_1536,
	"CCSDS_LDPC_ORANGE_2048": CCSDS_LDPC_ORANGE_2048,

	"IEEE80211N_QCLDPC_648_R1_2":  IEEE80211N_QCLDPC_648_R1_2,
	"IEEE80211N_QCLDPC_648_R2_3":  IEEE80211N_QCLDPC_648_R2_3,
	"IEEE80211N_QCLDPC_648_R3_4":  IEEE80211N_QCLDPC_648_R3_4,
	"IEEE80211N_QCLDPC_648_R5_6":  IEEE80211N_QCLDPC_648_R5_6,
	"IEEE80211N_QCLDPC_1296_R1_2": IEEE80211N_QCLDPC_1296_R1_2,
	"IEEE80211N_QCLDPC_1296_R2_3": IEEE80211N_QCLDPC_1296_R2_3,
	"IEEE80211N_QCLDPC_1296_R3_4": IEEE80211N_QCLDPC_1296_R3_4,
	"IEEE80211N_QCLDPC_1296_R5_6": IEEE80211N_QCLDPC_1296_R5_6,
	"IEEE80211N_QCLDPC_1944_R1_2": IEEE80211N_QCLDPC_1944_R1_2,
	"IEEE80211N_QCLDPC_1944_R2_3": IEEE80211N_QCLDPC_1944_R2_3,
	"IEEE80211N_QCLDPC_1944_R3_4": IEEE80211N_QCLDPC_1944_R3_4,
	"IEEE80211N_QCLDPC_1944_R5_6": IEEE80211N_QCLDPC_1944_R5_6,
}

// ParseScheme resolves a configuration-file scheme name to its wire tag.
func ParseScheme(name string) (Scheme, error) {
	s, ok := schemeNames[name]
	if !ok {
		return 0, ErrInvalidScheme
	}
	return s, nil
}

// itoa avoids pulling in strconv for a single one-off debug path.
func itoa(v uint8) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
