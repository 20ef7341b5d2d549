// Package mac implements the ExAlta UHF MAC-layer framing and forward error
// correction subsystem: a table-driven FEC scheme registry, a Golay(24,12)
// protected MPDU header, a CCSDS K=7 R=1/2 convolutional codec with
// hard-decision Viterbi decoding, and the MPDU framer that ties them
// together to turn CSP datagrams into 128-byte UHF transparent-mode frames.
package mac

import "fmt"

// RfMode identifies the GFSK modulation variant selected by the UHF radio.
// It is opaque to the MAC core and carried verbatim in the header.
type RfMode uint8

const (
	RfMode0 RfMode = iota
	RfMode1
	RfMode2
	RfMode3
	RfMode4
	RfMode5
	RfMode6
	RfMode7
)

// IsValid reports whether m is one of the 8 wire-encodable RF modes.
func (m RfMode) IsValid() bool {
	return m <= RfMode7
}

func (m RfMode) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("RfMode(%d)", uint8(m))
	}
	return fmt.Sprintf("RF_MODE_%d", uint8(m))
}

// CodingRate is the message/codeword bit ratio of an ErrorCorrectionScheme.
type CodingRate int

const (
	Rate1_6 CodingRate = iota
	Rate1_5
	Rate1_4
	Rate1_3
	Rate1_2
	Rate2_3
	Rate3_4
	Rate4_5
	Rate5_6
	Rate7_8
	Rate8_9
	Rate1
	RateNA
	RateBad
)

func (r CodingRate) String() string {
	switch r {
	case Rate1_6:
		return "1/6"
	case Rate1_5:
		return "1/5"
	case Rate1_4:
		return "1/4"
	case Rate1_3:
		return "1/3"
	case Rate1_2:
		return "1/2"
	case Rate2_3:
		return "2/3"
	case Rate3_4:
		return "3/4"
	case Rate4_5:
		return "4/5"
	case Rate5_6:
		return "5/6"
	case Rate7_8:
		return "7/8"
	case Rate8_9:
		return "8/9"
	case Rate1:
		return "1"
	case RateNA:
		return "N/A"
	default:
		return "BAD"
	}
}

// Error taxonomy. These are sentinel errors: callers compare with
// errors.Is against the unwrapped values below.
var (
	// ErrInvalidScheme indicates a scheme tag not recognised by the table.
	// Fatal to the current operation.
	ErrInvalidScheme = fmt.Errorf("mac: invalid scheme")
	// ErrNotImplemented indicates a recognised scheme with no codec.
	ErrNotImplemented = fmt.Errorf("mac: scheme not implemented")
	// ErrBadFormat indicates malformed input: wrong frame length or an
	// unsupported PPDU bits-per-octet tag.
	ErrBadFormat = fmt.Errorf("mac: bad format")
	// ErrHeaderCorrupt indicates a Golay decode of one of the three header
	// codewords reported uncorrectable. Non-fatal: the frame is dropped.
	ErrHeaderCorrupt = fmt.Errorf("mac: header corrupt")
	// ErrCodewordUndecodable is reserved for block codecs; unreachable for
	// the hard-decision convolutional decoder, which always produces a
	// best-effort output.
	ErrCodewordUndecodable = fmt.Errorf("mac: codeword undecodable")
)
