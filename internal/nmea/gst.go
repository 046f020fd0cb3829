package nmea

import (
	"github.com/bramburn/gnss-core/internal/fusion"
	"github.com/bramburn/gnss-core/internal/support"
)

// gstState stages one GST sentence: its own timestamp (part of the NMEA
// epoch key alongside GGA/RMC) and the lat/lon/alt standard deviations used
// to compute a combined horizontal error estimate.
//
// Field layout: 1 time, 2 rms, 3 stddev semi-major, 4 stddev semi-minor,
// 5 orientation, 6 sigma-lat, 7 sigma-lon, 8 sigma-alt.
type gstState struct {
	hour, minute, second uint8
	millis               uint16
	hasTime              bool

	sigmaLat, sigmaLon, sigmaAlt uint32
}

func (g *gstState) field(idx int, raw []byte) bool {
	switch idx {
	case 1:
		h, m, s, ms, present, ok := parseTime(raw)
		if !ok {
			return false
		}
		if present {
			g.hour, g.minute, g.second, g.millis, g.hasTime = h, m, s, ms, true
		}
		return true
	case 6:
		v, _, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		g.sigmaLat = uint32(v)
		return true
	case 7:
		v, _, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		g.sigmaLon = uint32(v)
		return true
	case 8:
		v, _, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		g.sigmaAlt = uint32(v)
		return true
	default:
		return true
	}
}

func (g *gstState) commit(acc *fusion.Accumulator) {
	if g.hasTime {
		acc.SyncEpochTime(g.hour, g.minute, g.second, g.millis)
	}
	ehpe := support.Hypot2(g.sigmaLat, g.sigmaLon)
	acc.MarkGST(ehpe, g.sigmaAlt)
}
