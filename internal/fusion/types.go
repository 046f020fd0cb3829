// Package fusion accumulates fields parsed from NMEA sentences or UBX
// messages into Location and SatelliteSet snapshots, and decides when a
// snapshot is complete enough to hand to the caller. It knows nothing about
// bytes, checksums, or wire formats — it is fed named field values by the
// nmea and ubx packages and emits through two callbacks.
package fusion

// LocationType describes how much of a fix a Location carries.
type LocationType int

const (
	LocationNone LocationType = iota
	LocationTimeOnly
	Location2D
	Location3D
)

// Quality mirrors the GGA fix-quality / UBX flags-derived classification.
type Quality int

const (
	QualityNone Quality = iota
	QualityEstimated
	QualityAutonomous
	QualityDifferential
	QualityRTKFloat
	QualityRTKFixed
)

// FieldMask records which optional Location fields were actually populated
// for this epoch, so a consumer can distinguish "zero" from "absent".
type FieldMask uint16

const (
	FieldLatLon FieldMask = 1 << iota
	FieldAltitude
	FieldSeparation
	FieldSpeed
	FieldCourse
	FieldClimb
	FieldEHPE
	FieldEVPE
	FieldPDOP
	FieldHDOP
	FieldVDOP
	FieldTime
	FieldNumSV
	FieldCorrection
)

// Has reports whether every bit in want is set in m.
func (m FieldMask) Has(want FieldMask) bool { return m&want == want }

// DefaultDOP is the sentinel value (0.01 units, so 99.99) used when a DOP
// field was never supplied for the epoch.
const DefaultDOP = 9999

// UtcTime is the wire-normative representation of a fix timestamp.
type UtcTime struct {
	Year   uint8 // years since 1980
	Month  uint8 // 1-12
	Day    uint8 // 1-31
	Hour   uint8 // 0-23
	Minute uint8 // 0-59
	Second uint8 // 0-60 (60 during a leap second)
	Millis uint16
}

// DefaultUtcTime is the fill value used when no sentence/message in an
// epoch supplied a timestamp: 1980-01-06T00:00:00, the GPS epoch.
func DefaultUtcTime() UtcTime {
	return UtcTime{Month: 1, Day: 6}
}

// Location is a complete fix snapshot, rebuilt fresh for every emission.
type Location struct {
	Type       LocationType
	Quality    Quality
	Mask       FieldMask
	NumSV      int
	Latitude   int32 // 1e-7 degrees, signed
	Longitude  int32 // 1e-7 degrees, signed
	Altitude   int32 // mm, signed
	Separation int32 // mm, signed
	Speed      int32 // mm/s
	Course     int32 // 1e-5 degrees
	Climb      int32 // mm/s, up negated
	EHPE       uint32
	EVPE       uint32
	PDOP       uint16 // 0.01 units
	HDOP       uint16
	VDOP       uint16
	Correction int8 // leap seconds
	UTC        UtcTime
}

// SatState is a bitmask: bit 0 distinguishes Tracking from Searching; the
// remaining bits are independent flags that only make sense once tracking.
type SatState uint8

const (
	StateTracking SatState = 1 << iota
	StateNavigating
	StateCorrection
)

// Tracking reports whether the satellite has moved past Searching.
func (s SatState) Tracking() bool { return s&StateTracking != 0 }

// Satellite is one entry of a satellite-constellation snapshot.
type Satellite struct {
	PRN       uint8 // canonical id, 1-255
	State     SatState
	SNR       uint8
	Elevation int8
	Azimuth   uint16
}

// MaxSatellites bounds the satellite set so the accumulator never grows an
// unbounded slice regardless of how many SVs a receiver reports.
const MaxSatellites = 32

// SatelliteSet is a bounded, rebuilt-per-epoch collection of satellites.
type SatelliteSet struct {
	Satellites [MaxSatellites]Satellite
	Count      int
}

// Add appends a satellite if there is room; extra satellites beyond
// MaxSatellites are silently dropped, matching the bounded-buffer invariant
// required of every accumulator in this driver.
func (s *SatelliteSet) Add(sat Satellite) {
	if s.Count >= MaxSatellites {
		return
	}
	s.Satellites[s.Count] = sat
	s.Count++
}
