package nmea

import "github.com/bramburn/gnss-core/internal/fusion"

const gsvMaxPerSentence = 4

// gsvState accumulates satellites across an entire GSV cycle, which spans
// several independently-framed sentences (total, current, totalSV, then up
// to four (prn, elevation, azimuth, snr) groups per sentence). It survives
// across Tokenizer.Begin/End calls and is only reset at the start of a new
// cycle or on an index mismatch.
type gsvState struct {
	total, current, totalSV int

	satellites [fusion.MaxSatellites]fusion.Satellite
	count      int // satellites carried over from prior sentences this cycle

	sentSats  [gsvMaxPerSentence]fusion.Satellite
	sentCount int

	pending    fusion.Satellite
	pendingPRN bool
	groupPos   int
}

func (g *gsvState) field(idx int, raw []byte) bool {
	switch {
	case idx == 1:
		v, _, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		g.total = int(v)
		g.sentCount = 0
		g.groupPos = 0
		return true
	case idx == 2:
		v, _, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		current := int(v)
		expectedIndex := (current - 1) * gsvMaxPerSentence
		if current == 1 {
			g.count = 0
		} else if g.count != expectedIndex {
			// Out-of-order or skipped sentence: discard the whole cycle.
			g.count, g.total, g.current = 0, 0, 0
			return false
		}
		g.current = current
		return true
	case idx == 3:
		v, _, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		g.totalSV = int(v)
		return true
	case idx >= 4:
		return g.groupField(idx, raw)
	default:
		return true
	}
}

func (g *gsvState) groupField(idx int, raw []byte) bool {
	pos := (idx - 4) % 4
	switch pos {
	case 0:
		g.pending = fusion.Satellite{}
		v, present, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		g.pendingPRN = present
		if present {
			g.pending.PRN = uint8(v)
		}
	case 1:
		v, _, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		g.pending.Elevation = int8(v)
	case 2:
		v, _, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		g.pending.Azimuth = uint16(v)
	case 3:
		v, present, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		if present {
			g.pending.State = fusion.StateTracking
			g.pending.SNR = uint8(v)
		}
		if g.pendingPRN && g.sentCount < len(g.sentSats) {
			g.sentSats[g.sentCount] = g.pending
			g.sentCount++
		}
	}
	return true
}

// commitSentence appends this sentence's satellites to the cycle buffer,
// and, once the last sentence of the cycle has committed, emits everything
// gathered so far into the accumulator and resets for the next cycle.
func (g *gsvState) commitSentence(acc *fusion.Accumulator, talker fusion.Talker) {
	for i := 0; i < g.sentCount && g.count < len(g.satellites); i++ {
		g.satellites[g.count] = g.sentSats[i]
		g.count++
	}
	if g.total == 0 || g.current != g.total {
		return
	}
	for i := 0; i < g.count; i++ {
		acc.AddSatellite(g.satellites[i])
	}
	acc.MarkGSVDone(talker)
	g.total, g.current, g.count = 0, 0, 0
}
