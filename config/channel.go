// Package config loads channel configuration for the UHF MAC demo binaries
// from an INI file, the way gopkg.in/ini.v1 is used throughout the example
// corpus for small single-section configs.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/exalta/uhfmac/mac"
)

// Channel describes one UHF radio channel: the FEC scheme and RF mode to
// frame with, and how to reach the transceiver.
type Channel struct {
	Scheme     mac.Scheme
	RfMode     mac.RfMode
	DataField1 bool
	SerialPort string
	Baud       int
	PTTPin     int
	ResetPin   int
}

// LoadChannel reads the [channel] section of an INI file at path. A missing
// file, malformed section, unknown scheme name, or out-of-range RF mode is
// a fatal configuration error, not a recoverable one: the caller is
// expected to log.Fatalf on it rather than retry.
func LoadChannel(path string) (Channel, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Channel{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	sec, err := cfg.GetSection("channel")
	if err != nil {
		return Channel{}, fmt.Errorf("config: %s: missing [channel] section: %w", path, err)
	}

	schemeName := sec.Key("scheme").MustString("")
	scheme, err := mac.ParseScheme(schemeName)
	if err != nil {
		return Channel{}, fmt.Errorf("config: %s: unknown scheme %q", path, schemeName)
	}

	rfModeNum := sec.Key("rf_mode").MustInt(-1)
	rfMode := mac.RfMode(rfModeNum)
	if rfModeNum < 0 || !rfMode.IsValid() {
		return Channel{}, fmt.Errorf("config: %s: invalid rf_mode %d", path, rfModeNum)
	}

	return Channel{
		Scheme:     scheme,
		RfMode:     rfMode,
		DataField1: sec.Key("data_field1").MustBool(false),
		SerialPort: sec.Key("serial_port").MustString(""),
		Baud:       sec.Key("baud").MustInt(9600),
		PTTPin:     sec.Key("ptt_pin").MustInt(0),
		ResetPin:   sec.Key("reset_pin").MustInt(0),
	}, nil
}
