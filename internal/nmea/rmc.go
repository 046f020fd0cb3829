package nmea

import "github.com/bramburn/gnss-core/internal/fusion"

// rmcState stages one RMC sentence: time, A/V status, position, speed,
// course and date.
//
// Field layout: 1 time, 2 status, 3 lat, 4 N/S, 5 lon, 6 E/W, 7 speed
// (knots), 8 course, 9 date, 10-12 magnetic variation / mode (ignored).
type rmcState struct {
	hour, minute, second uint8
	millis               uint16
	hasTime              bool

	status bool

	latRaw, lonRaw rawBuf
	lat, lon       int32
	llPresent      bool

	speed, course int32

	hasDate          bool
	year, month, day uint8
}

func (r *rmcState) field(idx int, raw []byte) bool {
	switch idx {
	case 1:
		h, m, s, ms, present, ok := parseTime(raw)
		if !ok {
			return false
		}
		if present {
			r.hour, r.minute, r.second, r.millis, r.hasTime = h, m, s, ms, true
		}
		return true
	case 2:
		if len(raw) != 1 {
			return false
		}
		r.status = raw[0] == 'A'
		return true
	case 3:
		return r.latRaw.set(raw)
	case 4:
		return r.applyLat(raw)
	case 5:
		return r.lonRaw.set(raw)
	case 6:
		return r.applyLon(raw)
	case 7:
		v, present, ok := parseFixed(raw, 3)
		if !ok {
			return false
		}
		if present {
			r.speed = speedKnotsToMMps(v)
		}
		return true
	case 8:
		v, _, ok := parseFixed(raw, 5)
		if !ok {
			return false
		}
		r.course = int32(v)
		return true
	case 9:
		y, mo, d, present, ok := parseDate(raw)
		if !ok {
			return false
		}
		if present {
			r.year, r.month, r.day, r.hasDate = y, mo, d, true
		}
		return true
	default:
		return true
	}
}

func (r *rmcState) applyLat(hemi []byte) bool {
	v, present, ok := parseLatLon(r.latRaw.bytes(), 2, 89)
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
	r.lat, r.llPresent = v*sign, true
	return true
}

func (r *rmcState) applyLon(hemi []byte) bool {
	v, present, ok := parseLatLon(r.lonRaw.bytes(), 3, 179)
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
	r.lon = v * sign
	return true
}

func (r *rmcState) commit(acc *fusion.Accumulator) {
	if r.hasTime {
		acc.SyncEpochTime(r.hour, r.minute, r.second, r.millis)
	}
	acc.MarkRMC(r.status, r.lat, r.lon, r.llPresent, r.speed, r.course)
	if r.hasDate {
		acc.MarkRMCDate(r.year, r.month, r.day)
	}
}
