package orchestrator

// ConstellationMask selects which secondary GNSS constellations a u-blox
// receiver should track alongside GPS.
type ConstellationMask uint32

const ConstellationGLONASS ConstellationMask = 1 << 0

// SetConstellation loads a one-entry CFG-GNSS table enabling or disabling
// GLONASS tracking. Returns false (no state change) if the orchestrator is
// busy with another table or an outstanding send.
func (o *Orchestrator) SetConstellation(mask ConstellationMask) bool {
	enable := mask&ConstellationGLONASS != 0
	payload := cfgGNSSPayload(enable)
	return o.StartSetterTable([]Entry{ubxEntry(classCFG, idCFGGNSS, payload)})
}

// SetSBAS enables or disables SBAS augmentation.
func (o *Orchestrator) SetSBAS(on bool) bool {
	payload := cfgBoolTogglePayload(on)
	return o.StartSetterTable([]Entry{ubxEntry(classCFG, idCFGSBAS, payload)})
}

// SetQZSS enables or disables QZSS tracking, reusing the same CFG-GNSS
// payload shape as SetConstellation with a different enable flag offset.
func (o *Orchestrator) SetQZSS(on bool) bool {
	payload := cfgGNSSPayload(on)
	return o.StartSetterTable([]Entry{ubxEntry(classCFG, idCFGGNSS, payload)})
}

// SetExternal enables or disables the external active-antenna supply via
// CFG-NAV5's dynamic-model byte, the smallest single-command hook this
// driver exposes for antenna configuration.
func (o *Orchestrator) SetExternal(on bool) bool {
	payload := cfgBoolTogglePayload(on)
	return o.StartSetterTable([]Entry{ubxEntry(classCFG, idCFGNAV5, payload)})
}

// SetPeriodic configures on/off-time periodic (power-save) navigation.
// force selects "force periodic mode now" versus "apply on next fix cycle".
// It replays a four-entry table: CFG-RXM into continuous mode, the
// dynamically built CFG-PM2 frame, CFG-RXM back into power-save, and an
// RXM-PMREQ for periodS. Both CFG-RXM entries and the RXM-PMREQ expect no
// acknowledgement; only the CFG-PM2 entry waits for an ACK.
func (o *Orchestrator) SetPeriodic(onTimeS, periodS uint32, force bool) bool {
	table := []Entry{
		ubxEntryNoAck(classCFG, idCFGRXM, cfgRXMPayload(false)), // rxm_continuous
		ubxEntry(classCFG, idCFGPM2, buildCFGPM2(onTimeS, periodS, force)),
		ubxEntryNoAck(classCFG, idCFGRXM, cfgRXMPayload(true)), // rxm_powersave
		ubxEntryNoAck(classRXM, idRXMPMREQ, cfgPMREQPayload(periodS)),
	}
	return o.StartSetterTable(table)
}

// Sleep requests power-save sleep with no scheduled wake time, relying on
// wakeup() or an external interrupt to resume.
func (o *Orchestrator) Sleep() bool {
	return o.StartSetterTable([]Entry{ubxEntryNoAck(classRXM, idRXMPMREQ, cfgPMREQPayload(0))})
}

// Wakeup sends a single 0x00 byte, which u-blox receivers treat as a
// wake trigger while in power-save mode; it expects no acknowledgement.
func (o *Orchestrator) Wakeup() bool {
	return o.StartSetterTable([]Entry{{Frame: []byte{0x00}, NoAck: true}})
}

// --- payload builders ---

func cfgBoolTogglePayload(on bool) []byte {
	payload := make([]byte, 4)
	if on {
		payload[0] = 1
	}
	return payload
}

func cfgGNSSPayload(enable bool) []byte {
	payload := make([]byte, 8)
	if enable {
		payload[4] = 1
	}
	return payload
}

func cfgRXMPayload(powerSave bool) []byte {
	payload := make([]byte, 2)
	if powerSave {
		payload[1] = 1
	}
	return payload
}

func cfgPMREQPayload(periodS uint32) []byte {
	payload := make([]byte, 8)
	durationMS := periodS * 1000
	payload[4] = byte(durationMS)
	payload[5] = byte(durationMS >> 8)
	payload[6] = byte(durationMS >> 16)
	payload[7] = byte(durationMS >> 24)
	return payload
}

// buildCFGPM2 assembles a UBX CFG-PM2 power-management payload. The scratch
// buffer is explicitly zeroed before every field is written — spec.md's
// Open Question flags the original's memset call as passing the macro by
// value rather than sizeof, clearing only the first byte; make(...) already
// zero-initialises in Go, so this is belt-and-braces against a future
// change to a pooled buffer.
func buildCFGPM2(onTimeS, periodS uint32, force bool) []byte {
	const payloadLen = 44
	payload := make([]byte, payloadLen)
	for i := range payload {
		payload[i] = 0
	}

	payload[0] = 1 // version

	var flags uint32
	if force {
		flags |= 1 << 1 // forcePeriodicMode
	}
	putU32LE(payload, 4, flags)

	putU32LE(payload, 8, periodS*1000)  // updatePeriod, ms
	putU32LE(payload, 20, onTimeS*1000) // onTime, ms (wire units narrowed to u16 by hardware; kept u32 here for headroom)

	return payload
}

func putU32LE(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}
