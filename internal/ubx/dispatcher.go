// Package ubx implements the UBX class/id/length message dispatcher. It
// receives an already checksum-framed header and payload stream one byte at
// a time from internal/wire and, for the handful of messages this driver
// understands, assembles only the specific little-endian fields it needs as
// bytes arrive at their known offsets — never buffering a whole payload,
// so NAV-SVINFO's repeated satellite records are processed one 12-byte
// chunk at a time regardless of how many satellites a receiver reports.
package ubx

import "github.com/bramburn/gnss-core/internal/fusion"

const (
	classNAV = 0x01
	classACK = 0x05

	idNavDOP     = 0x04
	idNavPVT     = 0x07
	idNavTimeGPS = 0x20
	idNavSVInfo  = 0x30

	idAckNACK = 0x00
	idAckACK  = 0x01
)

// AckSink receives a decoded ACK-ACK/ACK-NACK so the configuration
// orchestrator can match it against its pending command slot without the
// dispatcher depending on the orchestrator package.
type AckSink interface {
	UBXAck(class, id byte, ack bool)
}

type messageKind int

const (
	kindNone messageKind = iota
	kindNavDOP
	kindNavPVT
	kindNavTimeGPS
	kindNavSVInfo
	kindAck
)

// Dispatcher implements wire.UBXSink.
type Dispatcher struct {
	acc     *fusion.Accumulator
	ackSink AckSink

	kind   messageKind
	class  byte
	id     byte
	length uint16
	offset uint16

	dop     navDOPState
	pvt     navPVTState
	timeGPS navTimeGPSState
	svInfo  navSVInfoState
	ack     ackState
}

// NewDispatcher wires the fusion accumulator NAV-* messages feed and the
// sink (normally the configuration orchestrator) ACK-ACK/ACK-NACK feed.
func NewDispatcher(acc *fusion.Accumulator, ackSink AckSink) *Dispatcher {
	return &Dispatcher{acc: acc, ackSink: ackSink}
}

// Begin implements wire.UBXSink.
func (d *Dispatcher) Begin(class, id byte, length uint16) {
	d.class, d.id, d.length, d.offset = class, id, length, 0
	d.kind = kindNone
	switch {
	case class == classNAV && id == idNavDOP:
		d.kind = kindNavDOP
		d.dop = navDOPState{}
	case class == classNAV && id == idNavPVT:
		d.kind = kindNavPVT
		d.pvt = navPVTState{}
	case class == classNAV && id == idNavTimeGPS:
		d.kind = kindNavTimeGPS
		d.timeGPS = navTimeGPSState{}
	case class == classNAV && id == idNavSVInfo:
		d.kind = kindNavSVInfo
		d.svInfo = navSVInfoState{}
	case class == classACK && (id == idAckNACK || id == idAckACK):
		d.kind = kindAck
		d.ack = ackState{}
	}
}

// PayloadByte implements wire.UBXSink.
func (d *Dispatcher) PayloadByte(b byte) {
	offset := int(d.offset)
	d.offset++
	switch d.kind {
	case kindNavDOP:
		d.dop.byteAt(offset, b)
	case kindNavPVT:
		d.pvt.byteAt(offset, b)
	case kindNavTimeGPS:
		d.timeGPS.byteAt(offset, b)
	case kindNavSVInfo:
		d.svInfo.byteAt(offset, b, d.acc)
	case kindAck:
		d.ack.byteAt(offset, b)
	}
}

// End implements wire.UBXSink.
func (d *Dispatcher) End(checksumOK bool) {
	if !checksumOK {
		return
	}
	switch d.kind {
	case kindNavDOP:
		d.dop.commit(d.acc)
	case kindNavPVT:
		d.pvt.commit(d.acc)
	case kindNavTimeGPS:
		d.timeGPS.commit(d.acc)
	case kindNavSVInfo:
		d.svInfo.commit(d.acc)
	case kindAck:
		if d.ackSink != nil {
			d.ackSink.UBXAck(d.ack.ackClass, d.ack.ackID, d.id == idAckACK)
		}
	}
}

func le16(lo, hi byte) uint16 { return uint16(lo) | uint16(hi)<<8 }

func le32(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}
