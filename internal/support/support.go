// Package support holds the small numeric and time helpers shared by the
// NMEA and UBX decoders: integer square root, fixed-point scaling, and
// GPS-week/UTC arithmetic. None of it allocates or can fail in a way that
// needs propagating — callers validate field shape before calling in.
package support

// Pow10 is a precomputed table of powers of ten, indexed by exponent, used
// to left-shift short fixed-point fractions up to their declared scale.
var Pow10 = [10]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000,
}

// IntSqrt returns floor(sqrt(v)) using integer-only Newton's method, matching
// the embedded target's lack of a hardware float sqrt on the decode path.
func IntSqrt(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}

// ScaleFraction takes the digits that followed a decimal point and the
// target scale s, and returns the contribution they make to an integer
// value scaled by 10^s: digits beyond s are discarded, shorter fractions
// are left-shifted via Pow10.
func ScaleFraction(digits []byte, scale int) int64 {
	if scale <= 0 || len(digits) == 0 {
		return 0
	}
	n := len(digits)
	if n > scale {
		n = scale
	}
	var v int64
	for i := 0; i < n; i++ {
		v = v*10 + int64(digits[i]-'0')
	}
	if n < scale {
		v *= Pow10[scale-n]
	}
	return v
}

// gpsEpochYear, gpsEpochMonth and gpsEpochDay give 1980-01-06, the start of
// the GPS time scale, from which GPSWeekTimeToUTC counts weeks.
const (
	gpsEpochYear  = 1980
	gpsEpochMonth = 1
	gpsEpochDay   = 6
)

// daysInMonth returns the day count for month m (1-12) of year y, accounting
// for leap years using the proleptic Gregorian rule (good through 2099,
// which covers the GPS week rollover horizon relevant to this driver).
func daysInMonth(y, m int) int {
	const (
		jan = 1
		feb = 2
		dec = 12
	)
	table := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if m == feb && isLeap(y) {
		return 29
	}
	if m < jan || m > dec {
		return 30
	}
	return table[m-1]
}

func isLeap(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// GPSWeekTimeToUTC converts a GPS week number, a time-of-week in
// milliseconds, and the current leap-second correction into a UTC calendar
// date and time. Rollover across both days and years is handled by walking
// the calendar forward, mirroring how a bare-metal RTC library would do it
// without pulling in a full calendar package.
func GPSWeekTimeToUTC(week int, towMillis int64, leapSeconds int) (year, month, day, hour, minute, second int, millis int) {
	totalMillis := int64(week)*7*24*3600*1000 + towMillis - int64(leapSeconds)*1000
	if totalMillis < 0 {
		totalMillis = 0
	}

	totalSeconds := totalMillis / 1000
	millis = int(totalMillis % 1000)

	daysElapsed := int(totalSeconds / 86400)
	secOfDay := int(totalSeconds % 86400)

	hour = secOfDay / 3600
	minute = (secOfDay % 3600) / 60
	second = secOfDay % 60

	y, m, d := gpsEpochYear, gpsEpochMonth, gpsEpochDay
	for daysElapsed > 0 {
		dim := daysInMonth(y, m)
		remaining := dim - d + 1
		if daysElapsed < remaining {
			d += daysElapsed
			daysElapsed = 0
		} else {
			daysElapsed -= remaining
			d = 1
			m++
			if m > 12 {
				m = 1
				y++
			}
		}
	}
	return y, m, d, hour, minute, second, millis
}

// Hypot2 combines two fixed-point standard deviations (same unit) into their
// root-sum-square, used for GST's combined horizontal error estimate. It
// stays in integer arithmetic throughout, taking the final root with
// IntSqrt, matching the embedded target, which has no float sqrt in the
// decode path.
func Hypot2(a, b uint32) uint32 {
	sum := uint64(a)*uint64(a) + uint64(b)*uint64(b)
	return uint32(IntSqrt(sum))
}
