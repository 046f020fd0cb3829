package nmea

import "github.com/bramburn/gnss-core/internal/fusion"

// ggaState stages one GGA sentence's fields: time, position, fix quality,
// altitude and geoid separation. The satellite-count field is validated but
// not kept.
//
// Field layout (classic GGA): 1 time, 2 lat, 3 N/S, 4 lon, 5 E/W,
// 6 quality, 7 numSV, 8 hdop (unused here, GSA supplies DOP), 9 altitude,
// 10 altitude units, 11 separation, 12 separation units, 13 age, 14 station.
type ggaState struct {
	latRaw, lonRaw rawBuf
	lat, lon       int32
	llPresent      bool

	quality    fusion.Quality
	alt        int32
	altPresent bool
	sep        int32
	sepPresent bool

	hour, minute, second uint8
	millis               uint16
	hasTime              bool
}

func (g *ggaState) field(idx int, raw []byte) bool {
	switch idx {
	case 1:
		h, m, s, ms, present, ok := parseTime(raw)
		if !ok {
			return false
		}
		if present {
			g.hour, g.minute, g.second, g.millis = h, m, s, ms
			g.hasTime = true
		}
		return true
	case 2:
		return g.latRaw.set(raw)
	case 3:
		return g.applyLat(raw)
	case 4:
		return g.lonRaw.set(raw)
	case 5:
		return g.applyLon(raw)
	case 6:
		v, present, ok := parseUnsigned(raw)
		if !ok {
			return false
		}
		if present {
			g.quality = qualityFromGGA(int(v))
		}
		return true
	case 7:
		// Satellite count: GGA carries its own numSV field, but
		// Location.NumSV is sourced from GSA's used-satellite list
		// instead, so this field is only validated here, not stored.
		_, _, ok := parseUnsigned(raw)
		return ok
	case 9:
		v, present, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		if present {
			g.alt, g.altPresent = int32(v), true
		}
		return true
	case 11:
		v, present, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		if present {
			g.sep, g.sepPresent = int32(v), true
		}
		return true
	default:
		return true
	}
}

func (g *ggaState) applyLat(hemi []byte) bool {
	v, present, ok := parseLatLon(g.latRaw.bytes(), 2, 89)
	if !ok {
		return false
	}
	if !present {
		return true
	}
	sign, ok := hemisphereSign(hemi)
	if !ok {
		return false
	}
	g.lat = v * sign
	g.llPresent = true
	return true
}

func (g *ggaState) applyLon(hemi []byte) bool {
	v, present, ok := parseLatLon(g.lonRaw.bytes(), 3, 179)
	if !ok {
		return false
	}
	if !present {
		return true
	}
	sign, ok := hemisphereSign(hemi)
	if !ok {
		return false
	}
	g.lon = v * sign
	return true
}

func qualityFromGGA(v int) fusion.Quality {
	switch v {
	case 1:
		return fusion.QualityAutonomous
	case 2:
		return fusion.QualityDifferential
	case 4:
		return fusion.QualityRTKFixed
	case 5:
		return fusion.QualityRTKFloat
	case 6:
		return fusion.QualityEstimated
	default:
		return fusion.QualityNone
	}
}

func (g *ggaState) commit(acc *fusion.Accumulator) {
	if g.hasTime {
		acc.SyncEpochTime(g.hour, g.minute, g.second, g.millis)
	}
	acc.MarkGGA(g.lat, g.lon, g.llPresent, g.quality, g.alt, g.altPresent, g.sep, g.sepPresent)
}
