package mac

import "math"

// Encode applies scheme's forward error correction to data, which must be
// exactly messageBits bits long (MSB-first, zero-padded to a byte
// boundary). continuousMax is only consulted for continuous schemes
// (NO_FEC, the convolutional family); it is ignored otherwise.
func Encode(scheme Scheme, data []byte, continuousMax uint32) ([]byte, error) {
	if !scheme.IsValid() {
		return nil, ErrInvalidScheme
	}
	switch scheme {
	case NO_FEC:
		return data, nil
	case CCSDS_CONV_R1_2:
		messageBits, err := scheme.MessageBits(continuousMax)
		if err != nil {
			return nil, err
		}
		return convEncode(data, messageBits), nil
	default:
		return nil, ErrNotImplemented
	}
}

// Decode reverses scheme's FEC over an encoded codeword, returning the
// recovered user bits and a bit-error estimate that is always 0 on
// success (no implemented codec reports a real error count). snrEstimate is accepted for parity with
// soft-decision decoders elsewhere in the pack but is unused here: every
// codec this MAC implements is hard-decision. An unrecognised scheme
// reports ErrInvalidScheme with bitErrorEstimate set to the sentinel
// math.MaxUint32 ("uninitialized"); a recognised-but-unimplemented scheme
// reports ErrNotImplemented with the same sentinel.
func Decode(scheme Scheme, encoded []byte, continuousMax uint32, snrEstimate float64) (decoded []byte, bitErrorEstimate uint32, err error) {
	_ = snrEstimate
	if !scheme.IsValid() {
		return nil, math.MaxUint32, ErrInvalidScheme
	}
	switch scheme {
	case NO_FEC:
		return encoded, 0, nil
	case CCSDS_CONV_R1_2:
		messageBits, err := scheme.MessageBits(continuousMax)
		if err != nil {
			return nil, math.MaxUint32, err
		}
		decoded, _ := convDecode(encoded, messageBits)
		// Hard-decision decoding has no way to know whether the path it
		// picked actually matches the transmitted codeword, so it always
		// reports zero rather than the raw path metric.
		return decoded, 0, nil
	default:
		return nil, math.MaxUint32, ErrNotImplemented
	}
}
