// uhf-encode reads a CSP user packet and emits the 128-byte UHF MPDU
// frames a Framer configured per the channel config would transmit for it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"

	"github.com/exalta/uhfmac/config"
	"github.com/exalta/uhfmac/mac"
)

var (
	isDebugArg *bool   = flag.Bool("debug", false, "Emit debug log messages")
	configArg  *string = flag.String("config", "channel.ini", "Channel configuration file")
	inArg      *string = flag.String("in", "", "Input packet file (default stdin)")
	outArg     *string = flag.String("out", "", "Output frame stream file (default stdout)")
	helpArg    *bool   = flag.Bool("h", false, "Print arguments")
)

func main() {
	flag.Parse()
	if *helpArg {
		flag.Usage()
		return
	}
	setupLogging()

	ch, err := config.LoadChannel(*configArg)
	if err != nil {
		log.Fatalf("Error loading channel config: %v", err)
	}

	in := os.Stdin
	if *inArg != "" {
		in, err = os.Open(*inArg)
		if err != nil {
			log.Fatalf("Error opening input %q: %v", *inArg, err)
		}
		defer in.Close()
	}
	out := os.Stdout
	if *outArg != "" {
		out, err = os.Create(*outArg)
		if err != nil {
			log.Fatalf("Error opening output %q: %v", *outArg, err)
		}
		defer out.Close()
	}

	if err := encode(ch, in, out); err != nil {
		log.Fatalf("Error encoding packet: %v", err)
	}
}

// encode reads up to one CSP user packet from in and writes its framed
// MPDUs to out, back to back with no delimiter: each frame is exactly
// mac.FrameLength bytes, so the stream is self-describing.
func encode(ch config.Channel, in io.Reader, out io.Writer) error {
	packet, err := io.ReadAll(io.LimitReader(in, mac.MaxUserPacketLength+1))
	if err != nil {
		return fmt.Errorf("read packet: %w", err)
	}
	if len(packet) > mac.MaxUserPacketLength {
		return fmt.Errorf("packet of %d bytes exceeds the %d-byte limit", len(packet), mac.MaxUserPacketLength)
	}

	continuousMax := uint32(mac.MTU * 8)
	framer, err := mac.NewFramer(ch.Scheme, ch.RfMode, continuousMax)
	if err != nil {
		return fmt.Errorf("construct framer: %w", err)
	}
	frames, err := framer.TransmitPacket(packet)
	if err != nil {
		return fmt.Errorf("transmit packet: %w", err)
	}
	log.Printf("[DEBUG] encoded %d-byte packet into %d frames", len(packet), len(frames))
	for _, frame := range frames {
		if _, err := out.Write(frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	return nil
}

func setupLogging() {
	minLogLevel := "INFO"
	if *isDebugArg {
		minLogLevel = "DEBUG"
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "ERROR"},
		MinLevel: logutils.LogLevel(minLogLevel),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
	log.Print("[DEBUG] Debug is on")
}
