// Package gnssdriver is the public entry point for the embedded GNSS
// receiver driver core: a byte-streaming NMEA/UBX decoder, a Location/
// Satellite fusion engine, and a configuration orchestrator, wired together
// behind a single Session value.
package gnssdriver

import (
	"github.com/bramburn/gnss-core/internal/envcap"
	"github.com/bramburn/gnss-core/internal/fusion"
	"github.com/bramburn/gnss-core/internal/nmea"
	"github.com/bramburn/gnss-core/internal/orchestrator"
	"github.com/bramburn/gnss-core/internal/ubx"
	"github.com/bramburn/gnss-core/internal/wire"
	"go.uber.org/zap"
)

// Re-exported domain types, so callers never need to import internal/fusion
// directly.
type (
	Location     = fusion.Location
	LocationType = fusion.LocationType
	Quality      = fusion.Quality
	UtcTime      = fusion.UtcTime
	Satellite    = fusion.Satellite
	SatelliteSet = fusion.SatelliteSet
	FieldMask    = fusion.FieldMask
)

const (
	LocationNone     = fusion.LocationNone
	LocationTimeOnly = fusion.LocationTimeOnly
	Location2D       = fusion.Location2D
	Location3D       = fusion.Location3D
)

const (
	QualityNone         = fusion.QualityNone
	QualityEstimated    = fusion.QualityEstimated
	QualityAutonomous   = fusion.QualityAutonomous
	QualityDifferential = fusion.QualityDifferential
	QualityRTKFloat     = fusion.QualityRTKFloat
	QualityRTKFixed     = fusion.QualityRTKFixed
)

// Mode selects which wire protocol and acknowledgement convention the
// receiver speaks.
type Mode int

const (
	ModeNMEAPassive Mode = iota
	ModeMediatek
	ModeUBlox
)

func (m Mode) orchestratorMode() orchestrator.Mode {
	switch m {
	case ModeMediatek:
		return orchestrator.ModeMediatek
	case ModeUBlox:
		return orchestrator.ModeUBlox
	default:
		return orchestrator.ModeNMEAPassive
	}
}

// Session owns every sub-context for one receiver: the outer framer, the
// NMEA and UBX decoders, the fusion accumulator, and the configuration
// orchestrator. It is not safe for concurrent use; the caller's UART receive
// path and timer callback must be externally serialised, matching the
// single-threaded cooperative model the core is specified against.
type Session struct {
	mode   Mode
	rateHz int

	framer *wire.Framer
	acc    *fusion.Accumulator
	orch   *orchestrator.Orchestrator
}

// New constructs a Session. sender and timer are the two external
// collaborators the core consumes (UART send-with-completion and a one-shot
// timer); locationCB and satelliteCB receive complete fixes. rateHz must be
// 1, 5 or 10. log is optional; a nil logger keeps the Session silent, which
// is the right default for a library embedded without application-level
// logging.
func New(mode Mode, rateHz int, sender envcap.Sender, timer envcap.Timer, log *zap.Logger, locationCB func(Location), satelliteCB func(SatelliteSet)) *Session {
	acc := fusion.NewAccumulator(locationCB, satelliteCB)
	if mode == ModeUBlox {
		acc.SetUBXDefaults()
	} else {
		acc.SetNMEADefaults()
	}

	orch := orchestrator.New(sender, timer, mode.orchestratorMode(), acc, log)

	var nmeaSink nmea.MediatekAckSink
	var ubxAckSink ubx.AckSink
	if mode == ModeMediatek {
		nmeaSink = orch
	}
	if mode == ModeUBlox {
		ubxAckSink = orch
	}

	tok := nmea.NewTokenizer(acc, nmeaSink)
	dispatcher := ubx.NewDispatcher(acc, ubxAckSink)

	s := &Session{mode: mode, rateHz: rateHz, acc: acc, orch: orch}
	if mode == ModeUBlox {
		s.framer = wire.NewFramer(nil, dispatcher)
	} else {
		s.framer = wire.NewFramer(tok, nil)
	}
	return s
}

// Initialize sends the protocol's baud-change sentence for newBaud (nothing
// is sent in NMEA-passive mode). It does not start the init table; the
// caller calls BeginTableReplay for that once the new baud rate has taken
// effect.
func (s *Session) Initialize(newBaud int) {
	s.orch.BeginBaudHandshake(newBaud)
}

// BeginTableReplay starts phase 2 (init command table replay). The caller
// invokes this once it has reopened the UART at the negotiated baud rate
// and observed a first validly framed sentence/message — the UART rebaud
// itself is an external-collaborator concern outside this core.
func (s *Session) BeginTableReplay() {
	if s.mode == ModeUBlox {
		s.orch.StartInitTable(orchestrator.UBloxInitTable(s.rateHz))
	} else if s.mode == ModeMediatek {
		s.orch.StartInitTable(orchestrator.MediatekInitTable(s.rateHz))
	}
}

// Receive feeds incoming bytes from the UART receive path into the decoder.
func (s *Session) Receive(data []byte) {
	s.framer.Write(data)
}

// Done reports whether the orchestrator has no table in progress and no
// send outstanding.
func (s *Session) Done() bool {
	return s.orch.Done()
}

// SetConstellation enables or disables GLONASS tracking alongside GPS.
func (s *Session) SetConstellation(glonass bool) bool {
	var mask orchestrator.ConstellationMask
	if glonass {
		mask = orchestrator.ConstellationGLONASS
	}
	return s.orch.SetConstellation(mask)
}

// SetSBAS enables or disables SBAS augmentation.
func (s *Session) SetSBAS(on bool) bool { return s.orch.SetSBAS(on) }

// SetQZSS enables or disables QZSS tracking.
func (s *Session) SetQZSS(on bool) bool { return s.orch.SetQZSS(on) }

// SetExternal enables or disables the external active-antenna supply.
func (s *Session) SetExternal(on bool) bool { return s.orch.SetExternal(on) }

// SetPeriodic configures periodic (power-save) navigation.
func (s *Session) SetPeriodic(onTimeS, periodS uint32, force bool) bool {
	return s.orch.SetPeriodic(onTimeS, periodS, force)
}

// Sleep requests power-save sleep.
func (s *Session) Sleep() bool { return s.orch.Sleep() }

// Wakeup resumes a sleeping receiver.
func (s *Session) Wakeup() bool { return s.orch.Wakeup() }
