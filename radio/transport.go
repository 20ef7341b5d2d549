// Package radio adapts the mac package's fixed-size MPDU frames to a real
// UHF transceiver's serial command interface: a serial port, a GPIO PTT
// line, and a link-layer CRC guarding the frame in transit. None of this
// is visible to mac.Framer, which only ever sees a clean 128-byte frame.
package radio

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sigurn/crc16"

	"github.com/exalta/uhfmac/mac"
)

// linkCRCParams is the CRC-16 variant guarding a RadioFrame's integrity
// across the serial link. This is a transport-layer concern distinct from
// the MPDU header's Golay protection: the header survives bit errors that
// make it through the radio's demodulator, this CRC instead catches byte
// loss/corruption on the wire between the host and the transceiver.
var linkCRCParams = crc16.Params{
	Poly: 0x1021,
	Init: 0xffff,
	Name: "RADIO-FRAME",
}

func linkCRC(b []byte) uint16 {
	return crc16.Checksum(b, crc16.MakeTable(linkCRCParams))
}

// Line is a single GPIO output, abstracting github.com/warthog618/go-gpiocdev
// so transports can be built and tested without a real gpiochip.
type Line interface {
	SetValue(value int) error
	Close() error
}

// Transport sends and receives mac.FrameLength-byte MPDU frames over a
// serial link, optionally prefixed with a one-byte Data Field 1 frame
// length and always suffixed with a link-integrity CRC.
type Transport struct {
	port io.ReadWriter

	dataField1 bool
	ptt        Line
}

// NewTransport wraps an already-open serial connection (or, in tests, an
// io.Pipe end) with a Data Field 1 prefix policy and an optional PTT line.
// ptt may be nil, in which case TransmitFrame keys nothing.
func NewTransport(port io.ReadWriter, dataField1 bool, ptt Line) *Transport {
	return &Transport{port: port, dataField1: dataField1, ptt: ptt}
}

// wireSize returns the number of bytes one RadioFrame occupies on the wire:
// the optional Data Field 1 length byte, the MPDU frame itself, and the
// 2-byte link CRC trailer.
func (t *Transport) wireSize() int {
	n := mac.FrameLength + 2
	if t.dataField1 {
		n++
	}
	return n
}

// TransmitFrame keys the transmitter, writes one framed MPDU, then unkeys.
func (t *Transport) TransmitFrame(frame []byte) error {
	if len(frame) != mac.FrameLength {
		return mac.ErrBadFormat
	}
	wire := make([]byte, 0, t.wireSize())
	if t.dataField1 {
		wire = append(wire, byte(mac.FrameLength))
	}
	wire = append(wire, frame...)
	crc := linkCRC(frame)
	wire = append(wire, byte(crc>>8), byte(crc))

	if err := t.setPTT(true); err != nil {
		return fmt.Errorf("radio: assert PTT: %w", err)
	}
	defer func() {
		if err := t.setPTT(false); err != nil {
			log.Printf("[ERROR] radio: deassert PTT: %v", err)
		}
	}()

	if _, err := t.port.Write(wire); err != nil {
		return fmt.Errorf("radio: write frame: %w", err)
	}
	return nil
}

// ReceiveFrame reads one framed MPDU and verifies its link CRC, returning
// the bare mac.FrameLength-byte frame ready for mac.Framer.ReceiveFrame.
func (t *Transport) ReceiveFrame() ([]byte, error) {
	wire := make([]byte, t.wireSize())
	if _, err := io.ReadFull(t.port, wire); err != nil {
		return nil, fmt.Errorf("radio: read frame: %w", err)
	}
	if t.dataField1 {
		if int(wire[0]) != mac.FrameLength {
			return nil, fmt.Errorf("radio: data field 1 length %d, want %d", wire[0], mac.FrameLength)
		}
		wire = wire[1:]
	}
	frame := wire[:mac.FrameLength]
	trailer := wire[mac.FrameLength:]
	want := uint16(trailer[0])<<8 | uint16(trailer[1])
	if got := linkCRC(frame); got != want {
		return nil, fmt.Errorf("radio: link CRC mismatch: got %#04x, want %#04x", got, want)
	}
	return append([]byte(nil), frame...), nil
}

func (t *Transport) setPTT(keyed bool) error {
	if t.ptt == nil {
		return nil
	}
	v := 0
	if keyed {
		v = 1
	}
	return t.ptt.SetValue(v)
}

// Close releases the PTT line and, if the underlying port supports it,
// closes the port itself.
func (t *Transport) Close() error {
	var pttErr, portErr error
	if t.ptt != nil {
		pttErr = t.ptt.Close()
	}
	if closer, ok := t.port.(io.Closer); ok {
		portErr = closer.Close()
	}
	if pttErr != nil || portErr != nil {
		return fmt.Errorf("radio: close: ptt=%v port=%v", pttErr, portErr)
	}
	return nil
}

// pttSettleDelay is how long OpenSerial waits after opening the serial port
// before returning its Transport. NewTransport does not use it, and
// TransmitFrame writes the frame immediately after asserting PTT.
const pttSettleDelay = 2 * time.Millisecond
