package ubx

import "github.com/bramburn/gnss-core/internal/fusion"

const svInfoHeaderLen = 8
const svInfoRecordLen = 12

// navSVInfoState streams UBX-NAV-SVINFO's 8-byte header followed by N
// 12-byte satellite records. Each record is assembled into a fixed-size
// scratch buffer and flushed into the accumulator as soon as it is
// complete, so the state never grows regardless of how many channels the
// receiver reports.
type navSVInfoState struct {
	itowB [4]byte

	begun  bool
	record [svInfoRecordLen]byte
	inRec  int // bytes filled in the current record
}

func (s *navSVInfoState) byteAt(offset int, b byte, acc *fusion.Accumulator) {
	if offset < 4 {
		s.itowB[offset] = b
		return
	}
	if offset < svInfoHeaderLen {
		if offset == svInfoHeaderLen-1 && !s.begun {
			s.begun = true
			acc.BeginSVInfo(le32(s.itowB[0], s.itowB[1], s.itowB[2], s.itowB[3]))
		}
		return
	}

	relative := (offset - svInfoHeaderLen) % svInfoRecordLen
	s.record[relative] = b
	s.inRec++
	if relative != svInfoRecordLen-1 {
		return
	}
	acc.AddSatellite(decodeSVInfoRecord(s.record))
	s.inRec = 0
}

func (s *navSVInfoState) commit(acc *fusion.Accumulator) {
	if !s.begun {
		// Zero-satellite message: still synchronise the epoch.
		acc.BeginSVInfo(le32(s.itowB[0], s.itowB[1], s.itowB[2], s.itowB[3]))
	}
	acc.EndSVInfo()
}

// decodeSVInfoRecord decodes one 12-byte NAV-SVINFO satellite record:
// chn +0, svid +1, flags +2, quality +3, cno +4, elev +5 (i8), azim +6
// (i16), prRes +8 (i32, unused here).
func decodeSVInfoRecord(rec [svInfoRecordLen]byte) fusion.Satellite {
	svID := rec[1]
	flags := rec[2]
	quality := rec[3]
	cno := rec[4]
	elev := int8(rec[5])
	azim := le16(rec[6], rec[7])

	var state fusion.SatState
	if quality >= 0x02 && quality <= 0x07 {
		state |= fusion.StateTracking
	}
	if flags&0x01 != 0 {
		state |= fusion.StateNavigating
	}
	if flags&0x02 != 0 {
		state |= fusion.StateCorrection
	}

	return fusion.Satellite{
		PRN:       svIDToCanonicalPRN(svID),
		State:     state,
		SNR:       cno,
		Elevation: elev,
		Azimuth:   azim,
	}
}

// svIDToCanonicalPRN maps a NAV-SVINFO satellite id onto this driver's
// canonical PRN space. The BeiDou +5 offset on the 33-64 range is preserved
// exactly, pending hardware verification; its origin is undocumented.
func svIDToCanonicalPRN(id byte) uint8 {
	switch {
	case id >= 1 && id <= 32: // GPS
		return id
	case id >= 33 && id <= 64: // BeiDou
		return id + (201 - 33 + 5)
	case id >= 65 && id <= 96: // GLONASS
		return id
	case id >= 120 && id <= 151: // SBAS
		return id - 87
	case id >= 152 && id <= 158: // SBAS
		return id
	case id >= 159 && id <= 163: // BeiDou
		return id + (201 - 159)
	case id >= 193 && id <= 200: // QZSS
		return id
	case id == 255: // GLONASS, unknown slot
		return id
	default:
		return id
	}
}
