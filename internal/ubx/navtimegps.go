package ubx

import "github.com/bramburn/gnss-core/internal/fusion"

// navTimeGPSState assembles UBX-NAV-TIMEGPS (class 0x01 id 0x20): itow +0,
// fTOW +4 (unused by this driver — itow already carries ms-of-week
// precision), week +8, leapS +10, valid +11. Validity requires both the
// week-valid and leap-second-valid bits of the valid byte.
type navTimeGPSState struct {
	itowB [4]byte
	weekB [2]byte
	leapS int8
	valid byte
}

func (s *navTimeGPSState) byteAt(offset int, b byte) {
	switch {
	case offset >= 0 && offset < 4:
		s.itowB[offset] = b
	case offset >= 8 && offset < 10:
		s.weekB[offset-8] = b
	case offset == 10:
		s.leapS = int8(b)
	case offset == 11:
		s.valid = b
	}
}

func (s *navTimeGPSState) commit(acc *fusion.Accumulator) {
	itow := le32(s.itowB[0], s.itowB[1], s.itowB[2], s.itowB[3])
	week := int(int16(le16(s.weekB[0], s.weekB[1])))
	valid := s.valid&0x03 == 0x03
	acc.MarkTimeGPS(itow, week, valid, int(s.leapS))
}
