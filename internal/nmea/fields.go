package nmea

import "github.com/bramburn/gnss-core/internal/support"

// Every field parser below distinguishes "absent" (an empty field, legal in
// many NMEA sentences when a receiver has nothing to report) from "invalid"
// (a non-digit where a digit was required). Absent fields leave whatever
// they feed alone; invalid fields force the sentence into its sink state.

func digitPair(b []byte) (int, bool) {
	if len(b) != 2 || b[0] < '0' || b[0] > '9' || b[1] < '0' || b[1] > '9' {
		return 0, false
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), true
}

func allDigits(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, true
	}
	var v int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int64(c-'0')
	}
	return v, true
}

// parseUnsigned parses a plain decimal integer field.
func parseUnsigned(b []byte) (value int64, present, ok bool) {
	if len(b) == 0 {
		return 0, false, true
	}
	v, good := allDigits(b)
	return v, true, good
}

// parseFixed parses an optionally-signed decimal with an optional fractional
// part, scaled to scale fractional digits (e.g. scale=3 keeps millimetres
// from a metres.mmm field).
func parseFixed(b []byte, scale int) (value int64, present, ok bool) {
	if len(b) == 0 {
		return 0, false, true
	}
	neg := false
	i := 0
	switch {
	case b[0] == '-':
		neg, i = true, 1
	case b[0] == '+':
		i = 1
	}
	dot := -1
	for j := i; j < len(b); j++ {
		if b[j] == '.' {
			dot = j
			break
		}
	}
	var intBytes, fracBytes []byte
	if dot < 0 {
		intBytes = b[i:]
	} else {
		intBytes = b[i:dot]
		fracBytes = b[dot+1:]
	}
	intVal, ok1 := allDigits(intBytes)
	if !ok1 {
		return 0, true, false
	}
	for _, c := range fracBytes {
		if c < '0' || c > '9' {
			return 0, true, false
		}
	}
	v := intVal*support.Pow10[scale] + support.ScaleFraction(fracBytes, scale)
	if neg {
		v = -v
	}
	return v, true, true
}

// parseTime parses HHMMSS(.sss).
func parseTime(b []byte) (hour, minute, second uint8, millis uint16, present, ok bool) {
	if len(b) == 0 {
		return 0, 0, 0, 0, false, true
	}
	if len(b) < 6 {
		return 0, 0, 0, 0, true, false
	}
	h, ok1 := digitPair(b[0:2])
	m, ok2 := digitPair(b[2:4])
	s, ok3 := digitPair(b[4:6])
	if !ok1 || !ok2 || !ok3 || h > 23 || m > 59 || s > 60 {
		return 0, 0, 0, 0, true, false
	}
	var ms int64
	if len(b) > 6 {
		if b[6] != '.' {
			return 0, 0, 0, 0, true, false
		}
		frac := b[7:]
		for _, c := range frac {
			if c < '0' || c > '9' {
				return 0, 0, 0, 0, true, false
			}
		}
		ms = support.ScaleFraction(frac, 3)
	}
	return uint8(h), uint8(m), uint8(s), uint16(ms), true, true
}

// parseDate parses DDMMYY, storing the year as an offset from 1980 per the
// UtcTime representation.
func parseDate(b []byte) (year, month, day uint8, present, ok bool) {
	if len(b) == 0 {
		return 0, 0, 0, false, true
	}
	if len(b) != 6 {
		return 0, 0, 0, true, false
	}
	dd, ok1 := digitPair(b[0:2])
	mm, ok2 := digitPair(b[2:4])
	yy, ok3 := digitPair(b[4:6])
	if !ok1 || !ok2 || !ok3 {
		return 0, 0, 0, true, false
	}
	full := 1900 + yy
	if yy < 80 {
		full = 2000 + yy
	}
	stored := full - 1980
	if stored < 0 {
		stored = 0
	}
	return uint8(stored), uint8(mm), uint8(dd), true, true
}

// parseLatLon parses DDMM.mmmmmmm (degLen=2) or DDDMM.mmmmmmm (degLen=3) into
// 1e-7-degree fixed point, unsigned; the caller applies the hemisphere sign
// once the following N/S or E/W field arrives.
func parseLatLon(b []byte, degLen, maxDeg int) (value int32, present, ok bool) {
	if len(b) == 0 {
		return 0, false, true
	}
	dot := -1
	for i, c := range b {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot <= degLen {
		return 0, true, false
	}
	degBytes := b[:degLen]
	minBytes := b[degLen:dot]
	fracBytes := b[dot+1:]

	deg, ok1 := allDigits(degBytes)
	minInt, ok2 := allDigits(minBytes)
	for _, c := range fracBytes {
		if c < '0' || c > '9' {
			return 0, true, false
		}
	}
	if !ok1 || !ok2 || int(deg) > maxDeg || minInt >= 60 {
		return 0, true, false
	}

	minFixedE7 := minInt*support.Pow10[7] + support.ScaleFraction(fracBytes, 7)
	minPart := (minFixedE7 + 30) / 60 // round half up, matching round(min/60*1e7)
	v := deg*support.Pow10[7] + minPart
	return int32(v), true, true
}

// hemisphereSign returns -1 for 'S'/'W', +1 for 'N'/'E', and ok=false for
// anything else.
func hemisphereSign(b []byte) (sign int32, ok bool) {
	if len(b) != 1 {
		return 0, false
	}
	switch b[0] {
	case 'N', 'E':
		return 1, true
	case 'S', 'W':
		return -1, true
	default:
		return 0, false
	}
}

// speedKnotsToMMps converts speed over ground in knots (fixed-point, scale
// 3) to millimetres per second: (v*1852 + 1800) / 3600.
func speedKnotsToMMps(knotsE3 int64) int32 {
	return int32((knotsE3*1852 + 1800) / 3600)
}
