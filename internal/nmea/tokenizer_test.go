package nmea

import (
	"testing"

	"github.com/bramburn/gnss-core/internal/fusion"
	"github.com/bramburn/gnss-core/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness() (*wire.Framer, *fusion.Accumulator, *[]fusion.Location, *[]fusion.SatelliteSet) {
	var locs []fusion.Location
	var sats []fusion.SatelliteSet
	acc := fusion.NewAccumulator(
		func(l fusion.Location) { locs = append(locs, l) },
		func(s fusion.SatelliteSet) { sats = append(sats, s) },
	)
	acc.SetNMEADefaults()
	tok := NewTokenizer(acc, nil)
	return wire.NewFramer(tok, nil), acc, &locs, &sats
}

func TestTokenizerMinimalFix(t *testing.T) {
	framer, _, locs, sats := newHarness()

	framer.Write([]byte("$GPRMC,074155.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,*1F\r\n"))
	framer.Write([]byte("$GPGGA,074155.799,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,*5F\r\n"))
	framer.Write([]byte("$GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5*36\r\n"))
	framer.Write([]byte("$GPGSV,1,1,03,01,40,050,30,02,30,100,25,03,20,150,*4B\r\n"))

	require.Len(t, *locs, 1)
	loc := (*locs)[0]
	assert.Equal(t, fusion.Location3D, loc.Type)
	assert.Equal(t, fusion.QualityAutonomous, loc.Quality)
	assert.EqualValues(t, 3, loc.NumSV)
	assert.EqualValues(t, 50000, loc.Altitude)
	assert.EqualValues(t, -30000, loc.Separation)
	assert.EqualValues(t, 257, loc.Speed)
	assert.EqualValues(t, 18000000, loc.Course)
	assert.EqualValues(t, 90, loc.HDOP)
	assert.EqualValues(t, 180, loc.PDOP)
	assert.EqualValues(t, 150, loc.VDOP)
	assert.True(t, loc.Latitude > 0)
	assert.True(t, loc.Longitude < 0)

	require.Len(t, *sats, 1)
	set := (*sats)[0]
	require.Equal(t, 3, set.Count)
	for i := 0; i < 2; i++ {
		assert.True(t, set.Satellites[i].State&fusion.StateNavigating != 0, "PRN %d should be Navigating", set.Satellites[i].PRN)
	}
	assert.False(t, set.Satellites[2].State.Tracking(), "third satellite had no SNR, so it's Searching")
}

func TestTokenizerBadChecksumNeverReachesAccumulator(t *testing.T) {
	framer, _, locs, _ := newHarness()

	// The minimal-fix RMC, GGA and GSA sentences (GGA's satellite count set
	// to 03) with every checksum corrupted to a value that cannot match.
	framer.Write([]byte("$GPRMC,074155.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,*00\r\n"))
	framer.Write([]byte("$GPGGA,074155.799,3723.2475,N,12158.3416,W,1,03,0.9,50.0,M,-30.0,M,,*00\r\n"))
	framer.Write([]byte("$GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5*00\r\n"))

	assert.Empty(t, *locs, "no field from a bad-checksum sentence should ever reach a callback")
}

func TestTokenizerGSVOutOfOrderDiscardsCycle(t *testing.T) {
	framer, acc, _, sats := newHarness()
	_ = acc

	framer.Write([]byte("$GPGSV,3,1,09,01,40,050,30,02,30,100,25,03,20,150,28,04,10,200,20*7C\r\n"))
	// Skips sentence 2 of 3: index mismatch discards the whole cycle.
	framer.Write([]byte("$GPGSV,3,3,09,09,05,300,15,10,15,030,22,11,60,090,35*44\r\n"))

	assert.Empty(t, *sats, "a skipped sentence number must discard the whole GSV cycle")
}
