package nmea

import "github.com/bramburn/gnss-core/internal/fusion"

// gsaState stages one GSA sentence: fix dimensionality, up to 12 used PRNs,
// and the PDOP/HDOP/VDOP triplet.
//
// Field layout: 1 mode (A/M, ignored), 2 fix type, 3-14 used PRNs,
// 15 pdop, 16 hdop, 17 vdop.
type gsaState struct {
	navMode int
	used    [12]int
	usedN   int

	pdop, hdop, vdop       uint16
	pdopOK, hdopOK, vdopOK bool
}

func (g *gsaState) field(idx int, raw []byte) bool {
	switch {
	case idx == 2:
		v, present, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		if present {
			g.navMode = int(v)
		}
		return true
	case idx >= 3 && idx <= 14:
		v, present, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		if present && g.usedN < len(g.used) {
			g.used[g.usedN] = int(v)
			g.usedN++
		}
		return true
	case idx == 15:
		v, present, ok := parseFixed(raw, 2)
		if !ok {
			return false
		}
		if present {
			g.pdop, g.pdopOK = uint16(v), true
		}
		return true
	case idx == 16:
		v, present, ok := parseFixed(raw, 2)
		if !ok {
			return false
		}
		if present {
			g.hdop, g.hdopOK = uint16(v), true
		}
		return true
	case idx == 17:
		v, present, ok := parseFixed(raw, 2)
		if !ok {
			return false
		}
		if present {
			g.vdop, g.vdopOK = uint16(v), true
		}
		return true
	default:
		return true
	}
}

func (g *gsaState) commit(acc *fusion.Accumulator, talker fusion.Talker) {
	acc.MarkGSA(talker, g.navMode, g.pdop, g.hdop, g.vdop,
		[3]bool{g.pdopOK, g.hdopOK, g.vdopOK}, g.used[:g.usedN])
}
