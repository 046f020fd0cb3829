package ubx

import "github.com/bramburn/gnss-core/internal/fusion"

// navPVTState assembles the fields this driver cares about out of
// UBX-NAV-PVT's 84-byte payload, each accumulated at its fixed offset as
// bytes stream past: itow +0, date +4..+10, flags +21, numSV +23,
// lon/lat/hAE/hMSL +24/+28/+32/+36, h/v acc +40/+44, velD +56,
// gSpeed +60, heading +64. The fix-type byte at +20 is not read: the
// Location type is TimeOnly when the fixOK flag is clear and 3D otherwise,
// so a 2D fix is reported as 3D.
type navPVTState struct {
	itowB [4]byte

	year      [2]byte
	month     byte
	day       byte
	hour      byte
	minute    byte
	second    byte
	flags     byte
	numSV     byte
	lonB      [4]byte
	latB      [4]byte
	hAEB      [4]byte
	hMSLB     [4]byte
	hAccB     [4]byte
	vAccB     [4]byte
	velDB     [4]byte
	gSpeedB   [4]byte
	headingB  [4]byte
}

func (s *navPVTState) byteAt(offset int, b byte) {
	switch {
	case offset >= 0 && offset < 4:
		s.itowB[offset] = b
	case offset >= 4 && offset < 6:
		s.year[offset-4] = b
	case offset == 6:
		s.month = b
	case offset == 7:
		s.day = b
	case offset == 8:
		s.hour = b
	case offset == 9:
		s.minute = b
	case offset == 10:
		s.second = b
	case offset == 21:
		s.flags = b
	case offset == 23:
		s.numSV = b
	case offset >= 24 && offset < 28:
		s.lonB[offset-24] = b
	case offset >= 28 && offset < 32:
		s.latB[offset-28] = b
	case offset >= 32 && offset < 36:
		s.hAEB[offset-32] = b
	case offset >= 36 && offset < 40:
		s.hMSLB[offset-36] = b
	case offset >= 40 && offset < 44:
		s.hAccB[offset-40] = b
	case offset >= 44 && offset < 48:
		s.vAccB[offset-44] = b
	case offset >= 56 && offset < 60:
		s.velDB[offset-56] = b
	case offset >= 60 && offset < 64:
		s.gSpeedB[offset-60] = b
	case offset >= 64 && offset < 68:
		s.headingB[offset-64] = b
	}
}

func i32(b0, b1, b2, b3 byte) int32 { return int32(le32(b0, b1, b2, b3)) }

// qualityFromPVTFlags derives a fix quality from NAV-PVT's flags byte: bit7
// or bit6 signal RTK fixed/float; otherwise bit0 (fixOK) combined with bit1
// (diffSoln) distinguishes differential from plain autonomous.
func qualityFromPVTFlags(flags byte) fusion.Quality {
	switch {
	case flags&0x80 != 0:
		return fusion.QualityRTKFixed
	case flags&0x40 != 0:
		return fusion.QualityRTKFloat
	case flags&0x01 == 0:
		return fusion.QualityNone
	case flags&0x02 != 0:
		return fusion.QualityDifferential
	default:
		return fusion.QualityAutonomous
	}
}

func (s *navPVTState) commit(acc *fusion.Accumulator) {
	itow := le32(s.itowB[0], s.itowB[1], s.itowB[2], s.itowB[3])
	year := le16(s.year[0], s.year[1])
	fixOK := s.flags&0x01 != 0

	acc.MarkPVT(
		itow,
		uint8(year-1980), s.month, s.day, s.hour, s.minute, s.second,
		qualityFromPVTFlags(s.flags), fixOK, int(s.numSV),
		i32(s.latB[0], s.latB[1], s.latB[2], s.latB[3]),
		i32(s.lonB[0], s.lonB[1], s.lonB[2], s.lonB[3]),
		i32(s.hAEB[0], s.hAEB[1], s.hAEB[2], s.hAEB[3]),
		i32(s.hMSLB[0], s.hMSLB[1], s.hMSLB[2], s.hMSLB[3]),
		le32(s.hAccB[0], s.hAccB[1], s.hAccB[2], s.hAccB[3]),
		le32(s.vAccB[0], s.vAccB[1], s.vAccB[2], s.vAccB[3]),
		i32(s.velDB[0], s.velDB[1], s.velDB[2], s.velDB[3]),
		i32(s.gSpeedB[0], s.gSpeedB[1], s.gSpeedB[2], s.gSpeedB[3]),
		i32(s.headingB[0], s.headingB[1], s.headingB[2], s.headingB[3]),
	)
}
