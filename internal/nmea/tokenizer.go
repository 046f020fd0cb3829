// Package nmea implements the NMEA 0183 field tokenizer and per-sentence
// state machines. It receives already checksum-framed payload bytes one at
// a time from internal/wire, splits them into fields, and dispatches each
// field by a (sentence, field-index) pair to a typed parser, accumulating
// into a local staging struct that is only committed to the fusion
// accumulator once the sentence's checksum has verified.
package nmea

import "github.com/bramburn/gnss-core/internal/fusion"

// maxFieldBytes bounds the per-field accumulation buffer; a field longer
// than this is malformed and forces the sentence into sink state, without
// ever growing the buffer.
const maxFieldBytes = 96

type kind int

const (
	kindUnknown kind = iota
	kindGGA
	kindGSA
	kindGSV
	kindGST
	kindRMC
	kindPMTK001
)

// Tokenizer implements wire.NMEASink.
type Tokenizer struct {
	acc     *fusion.Accumulator
	ackSink MediatekAckSink

	field    [maxFieldBytes]byte
	fieldLen int
	overflow bool
	fieldIdx int

	kind   kind
	talker fusion.Talker
	valid  bool // becomes false on any field parse failure; sentence sinks

	gga  ggaState
	gsa  gsaState
	gsv  gsvState
	gst  gstState
	rmc  rmcState
	pmtk pmtkState
}

// NewTokenizer wires the fusion accumulator that completed position/
// satellite sentences feed, and the sink (normally the configuration
// orchestrator) that PMTK001 acknowledgements feed. ackSink may be nil for
// a tokenizer that only ever sees u-blox-style receivers in NMEA-passive
// mode.
func NewTokenizer(acc *fusion.Accumulator, ackSink MediatekAckSink) *Tokenizer {
	return &Tokenizer{acc: acc, ackSink: ackSink}
}

// Begin implements wire.NMEASink.
func (t *Tokenizer) Begin() {
	t.fieldLen = 0
	t.overflow = false
	t.fieldIdx = 0
	t.kind = kindUnknown
	t.talker = fusion.TalkerGPS
	t.valid = true
	t.gga = ggaState{}
	t.gsa = gsaState{}
	// t.gsv deliberately survives across Begin calls: a GSV cycle spans
	// several independently-checksummed sentences.
	t.rmc = rmcState{}
	t.gst = gstState{}
	t.pmtk = pmtkState{}
}

// Byte implements wire.NMEASink.
func (t *Tokenizer) Byte(b byte) {
	if b == ',' {
		t.commitField()
		return
	}
	if t.overflow {
		return
	}
	if t.fieldLen >= maxFieldBytes {
		t.overflow = true
		t.valid = false
		return
	}
	t.field[t.fieldLen] = b
	t.fieldLen++
}

// End implements wire.NMEASink.
func (t *Tokenizer) End(checksumOK bool) {
	t.commitField() // the field preceding '*' never saw a trailing comma
	if !checksumOK || !t.valid {
		return
	}
	switch t.kind {
	case kindGGA:
		t.gga.commit(t.acc)
	case kindGSA:
		t.gsa.commit(t.acc, t.talker)
	case kindRMC:
		t.rmc.commit(t.acc)
	case kindGST:
		t.gst.commit(t.acc)
	case kindGSV:
		t.gsv.commitSentence(t.acc, t.talker)
	case kindPMTK001:
		if t.ackSink != nil {
			t.ackSink.MediatekAck(t.pmtk.cmd, t.pmtk.status)
		}
	}
}

func (t *Tokenizer) commitField() {
	raw := t.field[:t.fieldLen]
	idx := t.fieldIdx
	t.fieldLen = 0
	t.overflow = false
	t.fieldIdx++

	if idx == 0 {
		t.resolveAddress(raw)
		return
	}
	if !t.valid {
		return
	}

	switch t.kind {
	case kindGGA:
		t.valid = t.gga.field(idx, raw)
	case kindGSA:
		t.valid = t.gsa.field(idx, raw)
	case kindRMC:
		t.valid = t.rmc.field(idx, raw)
	case kindGST:
		t.valid = t.gst.field(idx, raw)
	case kindGSV:
		t.valid = t.gsv.field(idx, raw)
	case kindPMTK001:
		t.valid = t.pmtk.field(idx, raw)
	}
}

// resolveAddress inspects the address field (field 0, without the leading
// '$') to determine the sentence kind and, for GSA/GSV, the talker.
func (t *Tokenizer) resolveAddress(raw []byte) {
	t.kind = kindUnknown
	if len(raw) == 7 && string(raw) == "PMTK001" {
		t.kind = kindPMTK001
		return
	}
	if len(raw) != 5 {
		return
	}
	switch string(raw[2:5]) {
	case "GGA":
		t.kind = kindGGA
	case "GSA":
		t.kind = kindGSA
	case "GSV":
		t.kind = kindGSV
	case "GST":
		t.kind = kindGST
	case "RMC":
		t.kind = kindRMC
	default:
		return
	}
	switch string(raw[0:2]) {
	case "GP":
		t.talker = fusion.TalkerGPS
	case "GL":
		t.talker = fusion.TalkerGLONASS
	case "GN":
		t.talker = fusion.TalkerComposite
	default:
		t.kind = kindUnknown
	}
}
