package radio

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// OpenSerial opens a real UHF transceiver's command serial port at baud and
// wraps it in a Transport. ptt may be nil on platforms/builds with no GPIO
// support (see gpio_linux.go), in which case TransmitFrame keys nothing.
func OpenSerial(port string, baud int, dataField1 bool, ptt Line) (*Transport, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("radio: open serial port %s: %w", port, err)
	}
	t := NewTransport(p, dataField1, ptt)
	time.Sleep(pttSettleDelay)
	return t, nil
}
