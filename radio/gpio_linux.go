//go:build linux

package radio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// OpenPTTLine requests pin as an output on gpiochip0, low by default, for
// use as a Transport's PTT line.
func OpenPTTLine(pin int) (Line, error) {
	line, err := gpiocdev.RequestLine("gpiochip0", pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("radio: request PTT line %d: %w", pin, err)
	}
	return line, nil
}
