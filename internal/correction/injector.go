// Package correction relays an RTCM3 correction stream to a receiver
// without decoding its observation/ephemeris content. It exists purely to
// validate framing before forwarding: a malformed byte run from an
// upstream NTRIP source must never reach the receiver as garbage on the
// wire. Computing a position fix from the corrections is explicitly out of
// scope for this module.
package correction

import (
	"github.com/bramburn/gnss-core/internal/envcap"
	"github.com/go-gnss/rtcm/rtcm3"
)

// Injector accumulates raw bytes from an upstream correction source,
// extracts complete RTCM3 frames, and forwards each one verbatim to a
// Sender. It never buffers more than one partial frame's worth of data
// between calls, matching the core's bounded-memory decoding style.
type Injector struct {
	sender envcap.Sender
	parser *rtcm3.Parser

	framesForwarded int
	framesDropped   int
}

// NewInjector wires the destination Sender that verified frames are
// forwarded to.
func NewInjector(sender envcap.Sender) *Injector {
	return &Injector{sender: sender, parser: rtcm3.NewParser()}
}

// Write feeds a chunk of bytes from the correction source. Every complete,
// checksum-valid RTCM3 frame found is sent on; partial data at the end is
// retained internally for the next call.
func (inj *Injector) Write(data []byte) {
	inj.parser.Write(data)
	for {
		frame, err := inj.parser.NextFrame()
		if err != nil {
			return
		}
		if len(frame.Data) == 0 {
			inj.framesDropped++
			continue
		}
		inj.framesForwarded++
		inj.sender.Send(frame.Data, nil)
	}
}

// Stats reports how many frames have been forwarded and how many were
// dropped for carrying no payload, for an operator-facing counter.
func (inj *Injector) Stats() (forwarded, dropped int) {
	return inj.framesForwarded, inj.framesDropped
}
