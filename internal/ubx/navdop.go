package ubx

import "github.com/bramburn/gnss-core/internal/fusion"

// navDOPState assembles UBX-NAV-DOP (class 0x01 id 0x04): itow at +0, pDOP at
// +6, vDOP at +10, hDOP at +12, all u16 in 0.01 units.
type navDOPState struct {
	itowB               [4]byte
	pdopB, vdopB, hdopB [2]byte
}

func (s *navDOPState) byteAt(offset int, b byte) {
	switch {
	case offset >= 0 && offset < 4:
		s.itowB[offset] = b
	case offset >= 6 && offset < 8:
		s.pdopB[offset-6] = b
	case offset >= 10 && offset < 12:
		s.vdopB[offset-10] = b
	case offset >= 12 && offset < 14:
		s.hdopB[offset-12] = b
	}
}

func (s *navDOPState) commit(acc *fusion.Accumulator) {
	itow := le32(s.itowB[0], s.itowB[1], s.itowB[2], s.itowB[3])
	pdop := le16(s.pdopB[0], s.pdopB[1])
	vdop := le16(s.vdopB[0], s.vdopB[1])
	hdop := le16(s.hdopB[0], s.hdopB[1])
	acc.MarkDOP(itow, pdop, hdop, vdop)
}
