package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGSA(a *Accumulator, talker Talker) {
	a.MarkGSA(talker, 3, 180, 90, 150, [3]bool{true, true, true}, []int{3, 14, 22})
}

// S1: a minimal single-constellation NMEA fix — RMC, GGA, GSA, then one GSV
// group — produces exactly one Location and one SatelliteSet callback.
func TestAccumulatorMinimalFix(t *testing.T) {
	var gotLoc Location
	var gotSats SatelliteSet
	locCalls, satCalls := 0, 0

	a := NewAccumulator(
		func(l Location) { gotLoc = l; locCalls++ },
		func(s SatelliteSet) { gotSats = s; satCalls++ },
	)
	a.SetNMEADefaults()

	a.SyncEpochTime(7, 41, 55, 799)
	a.MarkRMC(true, 377733000, -1224192000, true, 1500, 9000)
	a.MarkRMCDate(24, 6, 15)

	a.SyncEpochTime(7, 41, 55, 799)
	a.MarkGGA(377733000, -1224192000, true, QualityAutonomous, 15000, true, -2000, true)

	sampleGSA(a, TalkerGPS)

	require.Equal(t, 1, locCalls, "Location should fire exactly once after GGA+GSA+RMC")
	assert.Equal(t, 0, satCalls, "satellites should not fire before a GSV group completes")
	assert.Equal(t, Location3D, gotLoc.Type)
	assert.True(t, gotLoc.Mask.Has(FieldLatLon))
	assert.EqualValues(t, 180, gotLoc.PDOP)
	assert.EqualValues(t, 3, gotLoc.NumSV, "NumSV comes from GSA's used-satellite list, not GGA's own count")

	a.AddSatellite(Satellite{PRN: 3, SNR: 40})
	a.AddSatellite(Satellite{PRN: 14, SNR: 35})
	a.AddSatellite(Satellite{PRN: 7, SNR: 20})
	a.MarkGSVDone(TalkerGPS)

	require.Equal(t, 1, satCalls)
	require.Equal(t, 3, gotSats.Count)
	assert.True(t, gotSats.Satellites[0].State&StateNavigating != 0, "PRN 3 was in the GSA used list")
	assert.True(t, gotSats.Satellites[1].State&StateNavigating != 0, "PRN 14 was in the GSA used list")
	assert.False(t, gotSats.Satellites[2].State&StateNavigating != 0, "PRN 7 was not in the GSA used list")
}

// S2: a GGA timestamp that disagrees with the RMC timestamp already
// accumulated discards the epoch; no Location is ever emitted for it.
func TestAccumulatorEpochMismatchDiscardsEpoch(t *testing.T) {
	locCalls := 0
	a := NewAccumulator(func(Location) { locCalls++ }, nil)
	a.SetNMEADefaults()

	a.SyncEpochTime(7, 41, 55, 799)
	a.MarkRMC(true, 377733000, -1224192000, true, 1500, 9000)

	// GGA disagrees by one millisecond: the in-progress RMC contribution is
	// discarded before GGA's own fields are applied.
	a.SyncEpochTime(7, 41, 55, 800)
	a.MarkGGA(377733000, -1224192000, true, QualityAutonomous, 15000, true, -2000, true)
	sampleGSA(a, TalkerGPS)

	assert.Equal(t, 0, locCalls, "RMC was discarded by the epoch mismatch, so GGA+GSA alone can't complete the set")
}

// S5: a composite (GN) fix requires two GSA frames and two GSV groups before
// either half emits.
func TestAccumulatorCompositeTalkerWidensExpectedSet(t *testing.T) {
	locCalls, satCalls := 0, 0
	var gotSats SatelliteSet

	a := NewAccumulator(
		func(Location) { locCalls++ },
		func(s SatelliteSet) { gotSats = s; satCalls++ },
	)
	a.SetNMEADefaults()

	a.SyncEpochTime(8, 0, 0, 0)
	a.MarkRMC(true, 1, 1, true, 0, 0)
	a.SyncEpochTime(8, 0, 0, 0)
	a.MarkGGA(1, 1, true, QualityAutonomous, 0, false, 0, false)

	sampleGSA(a, TalkerComposite) // first GN frame: GPS slot
	assert.Equal(t, 0, locCalls, "only one of two required GSA frames seen")
	sampleGSA(a, TalkerComposite) // second GN frame: GLONASS slot
	require.Equal(t, 1, locCalls, "both GSA frames now seen alongside GGA+RMC")

	a.AddSatellite(Satellite{PRN: 3})
	a.MarkGSVDone(TalkerGPS)
	assert.Equal(t, 0, satCalls, "GLONASS GSV group still outstanding")

	a.AddSatellite(Satellite{PRN: 70})
	a.MarkGSVDone(TalkerGLONASS)
	require.Equal(t, 1, satCalls)
	assert.Equal(t, 2, gotSats.Count)
}

// S6: a GSV group that finishes before the position half is still emitted,
// once the position half completes, rather than being lost.
func TestAccumulatorOutOfOrderGSVStillEmits(t *testing.T) {
	locCalls, satCalls := 0, 0
	a := NewAccumulator(func(Location) { locCalls++ }, func(SatelliteSet) { satCalls++ })
	a.SetNMEADefaults()

	a.AddSatellite(Satellite{PRN: 9})
	a.MarkGSVDone(TalkerGPS)
	assert.Equal(t, 0, satCalls, "satellites never emit before the first Location of the epoch")

	a.SyncEpochTime(9, 0, 0, 0)
	a.MarkRMC(true, 1, 1, true, 0, 0)
	a.SyncEpochTime(9, 0, 0, 0)
	a.MarkGGA(1, 1, true, QualityAutonomous, 0, false, 0, false)
	sampleGSA(a, TalkerGPS)

	require.Equal(t, 1, locCalls)
	require.Equal(t, 1, satCalls, "the already-complete GSV group emits as soon as the Location half does")
}

// A missing DOP/altitude/time on the working Location is filled with the
// documented defaults rather than left as zero.
func TestAccumulatorDefaultFills(t *testing.T) {
	var got Location
	a := NewAccumulator(func(l Location) { got = l }, nil)
	a.SetNMEADefaults()

	a.SyncEpochTime(0, 0, 0, 0)
	a.MarkRMC(true, 1, 1, true, 0, 0)
	a.SyncEpochTime(0, 0, 0, 0)
	a.MarkGGA(1, 1, true, QualityAutonomous, 0, false, 0, false)
	a.MarkGSA(TalkerGPS, 2, 0, 0, 0, [3]bool{false, false, false}, nil)

	assert.EqualValues(t, DefaultDOP, got.PDOP)
	assert.EqualValues(t, DefaultDOP, got.HDOP)
	assert.EqualValues(t, DefaultDOP, got.VDOP)
	assert.EqualValues(t, 0, got.Altitude)
	assert.EqualValues(t, 0, got.Separation)
}
