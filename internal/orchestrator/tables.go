package orchestrator

import (
	"fmt"
	"strconv"

	"github.com/bramburn/gnss-core/internal/wire"
)

// Entry is one step of a replay table: a verbatim wire frame (a complete
// NMEA sentence with its trailing CRLF, or a complete UBX frame with its
// checksum already computed) and the pending-command id the orchestrator
// expects an acknowledgement to carry. NoAck entries (the CFG-RXM sentinel
// the spec calls out) advance immediately once the send completes.
type Entry struct {
	Frame     []byte
	PendingID int32
	NoAck     bool
}

// mediatekIDBit distinguishes the two protocols' command-id spaces, since
// both fit comfortably in an int32 and the orchestrator only ever runs one
// protocol per session.
const mediatekIDBit = int32(1) << 30

func ubxPendingID(class, id byte) int32 {
	return int32(class)<<8 | int32(id)
}

func mediatekPendingID(cmd int) int32 {
	return mediatekIDBit | int32(cmd)
}

// buildUBXFrame assembles a complete, checksummed UBX frame from a class,
// id and payload.
func buildUBXFrame(class, id byte, payload []byte) []byte {
	header := []byte{class, id, byte(len(payload)), byte(len(payload) >> 8)}
	body := make([]byte, 0, len(header)+len(payload))
	body = append(body, header...)
	body = append(body, payload...)
	ckA, ckB := wire.Fletcher8(body)

	frame := make([]byte, 0, 2+len(body)+2)
	frame = append(frame, wire.UBXSync1, wire.UBXSync2)
	frame = append(frame, body...)
	frame = append(frame, ckA, ckB)
	return frame
}

// ubxEntry builds a table Entry for a fixed, precomputed UBX frame that
// expects an ACK-ACK/ACK-NACK matching its own class+id.
func ubxEntry(class, id byte, payload []byte) Entry {
	return Entry{
		Frame:     buildUBXFrame(class, id, payload),
		PendingID: ubxPendingID(class, id),
	}
}

// ubxEntryNoAck builds a table Entry for a UBX frame that expects no
// acknowledgement at all (the spec's CFG-RXM sentinel).
func ubxEntryNoAck(class, id byte, payload []byte) Entry {
	return Entry{
		Frame: buildUBXFrame(class, id, payload),
		NoAck: true,
	}
}

// mediatekEntry builds a table Entry for a literal $PMTK sentence string
// (caller supplies the full sentence including its checksum and CRLF),
// expecting a PMTK001 ack echoing cmd.
func mediatekEntry(sentence string, cmd int) Entry {
	return Entry{
		Frame:     []byte(sentence),
		PendingID: mediatekPendingID(cmd),
	}
}

// --- UBX class/id constants used by the init and runtime-setter tables ---

const (
	classCFG = 0x06
	classRXM = 0x02

	idCFGPRT  = 0x00
	idCFGGNSS = 0x3E
	idCFGSBAS = 0x16
	idCFGNAV5 = 0x24
	idCFGRXM  = 0x11
	idCFGPM2  = 0x3B
	idCFGRATE = 0x08

	idRXMPMREQ = 0x41
)

// pubx41Sentence builds the vendor $PUBX,41 baud-change sentence for the
// given new baud rate, with its XOR checksum computed and appended.
func pubx41Sentence(newBaud int) string {
	payload := "PUBX,41,1,0003,0003," + strconv.Itoa(newBaud) + ",0"
	return "$" + payload + "*" + nmeaChecksumHex(payload) + "\r\n"
}

// pmtk251Sentence builds the Mediatek $PMTK251 baud-change sentence.
func pmtk251Sentence(newBaud int) string {
	payload := "PMTK251," + strconv.Itoa(newBaud)
	return "$" + payload + "*" + nmeaChecksumHex(payload) + "\r\n"
}

func nmeaChecksumHex(payload string) string {
	var cksum byte
	for i := 0; i < len(payload); i++ {
		cksum ^= payload[i]
	}
	return fmt.Sprintf("%02X", cksum)
}
