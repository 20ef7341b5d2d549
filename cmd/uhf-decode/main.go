// uhf-decode reads a stream of 128-byte UHF MPDU frames (as produced by
// uhf-encode) and writes the reassembled CSP user packet.
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
	inArg      *string = flag.String("in", "", "Input frame stream file (default stdin)")
	outArg     *string = flag.String("out", "", "Output packet file (default stdout)")
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

	if err := decode(ch, in, out); err != nil {
		log.Fatalf("Error decoding frames: %v", err)
	}
}

// decode reads mac.FrameLength-byte frames from in until a complete packet
// has been reassembled, then writes the packet to out. Reaching EOF first
// is an error and nothing is written. A corrupt or undecodable frame is
// logged and dropped; it does not abort the reassembly.
func decode(ch config.Channel, in io.Reader, out io.Writer) error {
	continuousMax := uint32(mac.MTU * 8)
	framer, err := mac.NewFramer(ch.Scheme, ch.RfMode, continuousMax)
	if err != nil {
		return fmt.Errorf("construct framer: %w", err)
	}

	frame := make([]byte, mac.FrameLength)
	for {
		_, err := io.ReadFull(in, frame)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("input ended before a complete packet was reassembled")
		}
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		packet, complete, err := framer.ReceiveFrame(frame)
		if err != nil {
			log.Printf("[ERROR] dropping frame: %v", err)
			continue
		}
		if !complete {
			continue
		}
		if _, err := out.Write(packet); err != nil {
			return fmt.Errorf("write packet: %w", err)
		}
		return nil
	}
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
