package fusion

import (
	"math/bits"

	"github.com/bramburn/gnss-core/internal/support"
)

// Talker distinguishes which GNSS constellation (or combination) a GSA/GSV
// sentence speaks for, derived by the nmea package from the sentence's
// two-letter talker ID (GP, GL, GN, ...).
type Talker int

const (
	TalkerGPS Talker = iota
	TalkerGLONASS
	TalkerComposite
)

// bit is the per-sentence/message "seen" flag. GST is tracked for epoch-key
// purposes only; it never appears in an expected mask.
type bit uint32

const (
	bitGGA bit = 1 << iota
	bitGSAGPS
	bitGSAGLONASS
	bitGST
	bitRMC
	bitGSVGPS
	bitGSVGLONASS
	bitPVT
	bitDOP
	bitTimeGPS
	bitSVInfo
)

const ubxPositionBits = bitPVT | bitDOP | bitTimeGPS

// Accumulator owns one epoch's worth of in-progress Location and
// SatelliteSet state for either protocol. It is not safe for concurrent use;
// callers (the wire framer's single decode loop) serialise access.
type Accumulator struct {
	locationCB  func(Location)
	satelliteCB func(SatelliteSet)

	seen                  bit
	expectedPosition      bit
	expectedConstellation bit
	solution              bool // position emitted this epoch, gating satellite emission

	loc  Location
	sats SatelliteSet

	usedMask [3]uint32 // PRN 1-96, bit (prn-1)%32 of word (prn-1)/32

	epochSet     bool
	epochTimeKey UtcTime
	epochITOWSet bool
	epochITOW    uint32
}

// NewAccumulator wires the two emission callbacks. Either may be nil, in
// which case that half of a fix is computed and silently discarded.
func NewAccumulator(locationCB func(Location), satelliteCB func(SatelliteSet)) *Accumulator {
	return &Accumulator{locationCB: locationCB, satelliteCB: satelliteCB}
}

// SetNMEADefaults establishes the minimum NMEA expected set (GGA+GSA+RMC for
// the Location half, GSV for the satellite half) assuming a single,
// GPS-talker constellation until a composite or GLONASS-only talker is
// observed and narrows or widens it.
func (a *Accumulator) SetNMEADefaults() {
	a.expectedPosition = bitGGA | bitGSAGPS | bitRMC
	a.expectedConstellation = bitGSVGPS
}

// SetUBXDefaults establishes the fixed UBX expected set: NAV-PVT, NAV-DOP and
// NAV-TIMEGPS for the Location half, NAV-SVINFO for the satellite half.
// Unlike NMEA there is no talker-driven variant to track.
func (a *Accumulator) SetUBXDefaults() {
	a.expectedPosition = ubxPositionBits
	a.expectedConstellation = bitSVInfo
}

// Reset discards all in-progress accumulation: the working Location, the
// satellite set, every seen bit, and the epoch keys. Used both when a new
// epoch's timestamp/itow contradicts the one already in progress, and
// internally once a full Location+SatelliteSet pair has been emitted.
func (a *Accumulator) Reset() {
	a.seen = 0
	a.solution = false
	a.loc = Location{}
	a.sats = SatelliteSet{}
	a.usedMask = [3]uint32{}
	a.epochSet = false
	a.epochITOWSet = false
}

// SyncEpochTime is called by the nmea package before applying any field from
// a GGA, RMC or GST sentence. A change in time-of-day versus the
// already-accumulated epoch discards everything accumulated so far — the
// implicit epoch key described for the NMEA protocol.
func (a *Accumulator) SyncEpochTime(hour, minute, second uint8, millis uint16) {
	key := UtcTime{Hour: hour, Minute: minute, Second: second, Millis: millis}
	if a.epochSet && key != a.epochTimeKey {
		a.Reset()
	}
	a.epochTimeKey = key
	a.epochSet = true
	a.loc.UTC.Hour, a.loc.UTC.Minute, a.loc.UTC.Second, a.loc.UTC.Millis = hour, minute, second, millis
	a.loc.Mask |= FieldTime
}

// syncEpochITOW is the UBX analogue of SyncEpochTime: a mismatched itow
// discards the epoch in progress. Per the UBX dispatcher's gating rule this
// only fires while some position-set field is already seen; an itow change
// observed with nothing yet accumulated just starts the epoch.
func (a *Accumulator) syncEpochITOW(itow uint32) {
	if a.seen&ubxPositionBits != 0 && a.epochITOWSet && itow != a.epochITOW {
		a.Reset()
	}
	a.epochITOW = itow
	a.epochITOWSet = true
}

func (a *Accumulator) markUsed(prn int) {
	if prn < 1 || prn > 96 {
		return
	}
	a.usedMask[(prn-1)/32] |= 1 << uint((prn-1)%32)
}

func (a *Accumulator) isUsed(prn int) bool {
	if prn < 1 || prn > 96 {
		return false
	}
	return a.usedMask[(prn-1)/32]&(1<<uint((prn-1)%32)) != 0
}

// --- NMEA contributions ---

// MarkGGA applies GGA's fields: fix quality, lat/lon, altitude and geoid
// separation. GGA's own satellite-count field is not the source of
// Location.NumSV — that comes from GSA's used-satellite list, matching how
// the original GNSS library counts satellites actually used in the
// solution rather than merely in view. Time must already have been
// supplied via SyncEpochTime.
func (a *Accumulator) MarkGGA(lat, lon int32, llValid bool, quality Quality, altMM int32, altValid bool, sepMM int32, sepValid bool) {
	if llValid {
		a.loc.Latitude, a.loc.Longitude = lat, lon
		a.loc.Mask |= FieldLatLon
	}
	a.loc.Quality = quality
	if altValid {
		a.loc.Altitude = altMM
		a.loc.Mask |= FieldAltitude
	}
	if sepValid {
		a.loc.Separation = sepMM
		a.loc.Mask |= FieldSeparation
	}
	a.seen |= bitGGA
	a.checkPositionCompletion()
}

// MarkGSA applies GSA's navigation mode, DOP triplet and the used-satellite
// list, and updates the expected mask based on the sentence's talker: GN
// widens the expected set to require both a GPS and a GLONASS GSA frame (the
// two-frame composite-fix idiom), GP or GL alone narrows it to one.
func (a *Accumulator) MarkGSA(talker Talker, navMode int, pdop, hdop, vdop uint16, dopValid [3]bool, usedPRNs []int) {
	switch talker {
	case TalkerComposite:
		a.expectedPosition = bitGGA | bitGSAGPS | bitGSAGLONASS | bitRMC
		a.expectedConstellation = bitGSVGPS | bitGSVGLONASS
		if a.seen&bitGSAGPS == 0 {
			a.seen |= bitGSAGPS
		} else {
			a.seen |= bitGSAGLONASS
		}
	case TalkerGLONASS:
		a.expectedPosition = bitGGA | bitGSAGLONASS | bitRMC
		a.expectedConstellation = bitGSVGLONASS
		a.seen |= bitGSAGLONASS
	default: // TalkerGPS
		a.expectedPosition = bitGGA | bitGSAGPS | bitRMC
		a.expectedConstellation = bitGSVGPS
		a.seen |= bitGSAGPS
	}

	switch navMode {
	case 3:
		a.loc.Type = Location3D
	case 2:
		a.loc.Type = Location2D
	default:
		if a.loc.Type == LocationNone {
			a.loc.Type = LocationTimeOnly
		}
	}

	if dopValid[0] {
		a.loc.PDOP = pdop
		a.loc.Mask |= FieldPDOP
	}
	if dopValid[1] {
		a.loc.HDOP = hdop
		a.loc.Mask |= FieldHDOP
	}
	if dopValid[2] {
		a.loc.VDOP = vdop
		a.loc.Mask |= FieldVDOP
	}
	for _, prn := range usedPRNs {
		a.markUsed(prn)
	}
	a.loc.NumSV = bits.OnesCount32(a.usedMask[0]) + bits.OnesCount32(a.usedMask[1]) + bits.OnesCount32(a.usedMask[2])
	a.loc.Mask |= FieldNumSV

	a.checkPositionCompletion()
}

// MarkGST applies GST's combined horizontal/vertical error estimates. GST
// never gates position completion — its bit is tracked only so the sentence
// participates in epoch bookkeeping, not in the expected mask.
func (a *Accumulator) MarkGST(ehpe, evpe uint32) {
	a.loc.EHPE = ehpe
	a.loc.EVPE = evpe
	a.loc.Mask |= FieldEHPE | FieldEVPE
	a.seen |= bitGST
}

// MarkRMC applies RMC's status, lat/lon, speed and course. status reports
// the sentence's own A/V validity flag; fields are only applied when true.
func (a *Accumulator) MarkRMC(status bool, lat, lon int32, llValid bool, speedMMps, courseE5 int32) {
	if status && llValid {
		a.loc.Latitude, a.loc.Longitude = lat, lon
		a.loc.Mask |= FieldLatLon
	}
	if status {
		a.loc.Speed = speedMMps
		a.loc.Course = courseE5
		a.loc.Mask |= FieldSpeed | FieldCourse
	}
	a.seen |= bitRMC
	a.checkPositionCompletion()
}

// MarkRMCDate applies RMC's date field. Date is not part of the epoch key:
// only time-of-day distinguishes epochs, matching receivers that only emit
// a fresh date once a day.
func (a *Accumulator) MarkRMCDate(year, month, day uint8) {
	a.loc.UTC.Year, a.loc.UTC.Month, a.loc.UTC.Day = year, month, day
}

// MarkGSVDone is called once a full GSV cycle (all sentences of the
// multi-sentence group) has been consumed; satellites themselves arrive via
// AddSatellite as each sentence's fields are parsed.
func (a *Accumulator) MarkGSVDone(talker Talker) {
	if talker == TalkerGLONASS {
		a.seen |= bitGSVGLONASS
	} else {
		a.seen |= bitGSVGPS
	}
	a.checkConstellationCompletion()
}

// --- UBX contributions ---

// MarkPVT applies NAV-PVT's fields. itow is the message's own epoch key.
func (a *Accumulator) MarkPVT(itow uint32, year, month, day, hour, minute, second uint8, quality Quality, fixOK bool, numSV int, lat, lon, hAE, hMSL int32, hAcc, vAcc uint32, velD, gSpeed, headingE5 int32) {
	a.syncEpochITOW(itow)

	a.loc.UTC.Year, a.loc.UTC.Month, a.loc.UTC.Day = year, month, day
	a.loc.UTC.Hour, a.loc.UTC.Minute, a.loc.UTC.Second = hour, minute, second
	a.loc.Mask |= FieldTime

	a.loc.Latitude, a.loc.Longitude = lat, lon
	a.loc.Mask |= FieldLatLon

	a.loc.Altitude = hMSL
	a.loc.Separation = hMSL - hAE
	a.loc.Mask |= FieldAltitude | FieldSeparation

	a.loc.EHPE, a.loc.EVPE = hAcc, vAcc
	a.loc.Mask |= FieldEHPE | FieldEVPE

	a.loc.Speed = gSpeed
	a.loc.Course = headingE5
	a.loc.Climb = -velD
	a.loc.Mask |= FieldSpeed | FieldCourse | FieldClimb

	a.loc.NumSV = numSV
	a.loc.Mask |= FieldNumSV
	a.loc.Quality = quality

	if !fixOK {
		a.loc.Type = LocationTimeOnly
	} else if a.loc.Type == LocationNone {
		a.loc.Type = Location3D
	}

	a.seen |= bitPVT
	a.checkPositionCompletion()
}

// MarkDOP applies NAV-DOP's PDOP/HDOP/VDOP triplet.
func (a *Accumulator) MarkDOP(itow uint32, pdop, hdop, vdop uint16) {
	a.syncEpochITOW(itow)
	a.loc.PDOP, a.loc.HDOP, a.loc.VDOP = pdop, hdop, vdop
	a.loc.Mask |= FieldPDOP | FieldHDOP | FieldVDOP
	a.seen |= bitDOP
	a.checkPositionCompletion()
}

// MarkTimeGPS applies NAV-TIMEGPS's leap-second correction to Location, when
// the message reports a valid week+leap-second solution. It also fills in
// the UTC calendar date/time from the GPS week number when no other message
// in the epoch (namely NAV-PVT) has already supplied one.
func (a *Accumulator) MarkTimeGPS(itow uint32, week int, valid bool, leapSeconds int) {
	a.syncEpochITOW(itow)
	if valid {
		a.loc.Correction = int8(leapSeconds)
		a.loc.Mask |= FieldCorrection
		if !a.loc.Mask.Has(FieldTime) {
			year, month, day, hour, minute, second, millis := support.GPSWeekTimeToUTC(week, int64(itow), leapSeconds)
			a.loc.UTC = UtcTime{
				Year: uint8(year - 1980), Month: uint8(month), Day: uint8(day),
				Hour: uint8(hour), Minute: uint8(minute), Second: uint8(second), Millis: uint16(millis),
			}
			a.loc.Mask |= FieldTime
		}
	}
	a.seen |= bitTimeGPS
	a.checkPositionCompletion()
}

// BeginSVInfo synchronises NAV-SVINFO's itow against the epoch in progress
// before its repeated satellite records are streamed in via AddSatellite.
func (a *Accumulator) BeginSVInfo(itow uint32) {
	a.syncEpochITOW(itow)
}

// EndSVInfo marks NAV-SVINFO complete once every chunked record has been
// added, and checks whether the satellite half can now be emitted.
func (a *Accumulator) EndSVInfo() {
	a.seen |= bitSVInfo
	a.checkConstellationCompletion()
}

// AddSatellite appends one satellite record to the in-progress set, shared
// by both the NMEA GSV handler and the UBX NAV-SVINFO handler.
func (a *Accumulator) AddSatellite(sat Satellite) {
	a.sats.Add(sat)
}

// --- completion gating ---

func (a *Accumulator) checkPositionCompletion() {
	if a.expectedPosition == 0 || a.seen&a.expectedPosition != a.expectedPosition {
		return
	}
	loc := a.finalizeLocation()
	a.seen &^= a.expectedPosition
	a.solution = true
	if a.locationCB != nil {
		a.locationCB(loc)
	}
	// A GSV/SVINFO group that finished before the position half can't have
	// emitted yet (solution was false); check again now that it's true.
	a.checkConstellationCompletion()
}

func (a *Accumulator) checkConstellationCompletion() {
	if !a.solution || a.expectedConstellation == 0 || a.seen&a.expectedConstellation != a.expectedConstellation {
		return
	}
	for i := 0; i < a.sats.Count; i++ {
		if a.isUsed(int(a.sats.Satellites[i].PRN)) {
			a.sats.Satellites[i].State |= StateNavigating
		}
	}
	sats := a.sats
	a.seen &^= a.expectedConstellation
	if a.satelliteCB != nil {
		a.satelliteCB(sats)
	}
	a.Reset()
}

func (a *Accumulator) finalizeLocation() Location {
	loc := a.loc
	if !loc.Mask.Has(FieldPDOP) {
		loc.PDOP = DefaultDOP
	}
	if !loc.Mask.Has(FieldHDOP) {
		loc.HDOP = DefaultDOP
	}
	if !loc.Mask.Has(FieldVDOP) {
		loc.VDOP = DefaultDOP
	}
	if !loc.Mask.Has(FieldAltitude) {
		loc.Altitude = 0
		loc.Separation = 0
	}
	if !loc.Mask.Has(FieldTime) {
		loc.UTC = DefaultUtcTime()
	}
	return loc
}
