package gnssdriver

import (
	"testing"
	"time"

	"github.com/bramburn/gnss-core/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent [][]byte
}

func (f *fakeSender) Send(frame []byte, done func(error)) {
	f.sent = append(f.sent, append([]byte{}, frame...))
	if done != nil {
		done(nil)
	}
}

// nopTimer satisfies envcap.Timer without pulling in a real clock; none of
// these session-level tests exercise the ACK-timeout path (that is covered
// at the orchestrator level with a mock clock).
type nopTimer struct{}

func (nopTimer) Start(_ time.Duration, _ func()) {}
func (nopTimer) Stop()                           {}

func putU32(b []byte, offset int, v uint32) {
	b[offset] = byte(v)
	b[offset+1] = byte(v >> 8)
	b[offset+2] = byte(v >> 16)
	b[offset+3] = byte(v >> 24)
}

func buildTestUBXFrame(class, id byte, payload []byte) []byte {
	header := []byte{class, id, byte(len(payload)), byte(len(payload) >> 8)}
	body := append(append([]byte{}, header...), payload...)
	ckA, ckB := wire.Fletcher8(body)

	frame := []byte{wire.UBXSync1, wire.UBXSync2}
	frame = append(frame, body...)
	frame = append(frame, ckA, ckB)
	return frame
}

func buildTestUBXAck(class, id byte, ack bool) []byte {
	ackID := byte(0x01)
	if !ack {
		ackID = 0x00
	}
	return buildTestUBXFrame(0x05, ackID, []byte{class, id})
}

func TestSessionNMEAEndToEndMinimalFix(t *testing.T) {
	var locs []Location
	var sats []SatelliteSet
	sess := New(ModeNMEAPassive, 5, &fakeSender{}, nopTimer{}, nil,
		func(l Location) { locs = append(locs, l) },
		func(s SatelliteSet) { sats = append(sats, s) },
	)

	sess.Receive([]byte("$GPRMC,074155.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,*1F\r\n"))
	sess.Receive([]byte("$GPGGA,074155.799,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,*5F\r\n"))
	sess.Receive([]byte("$GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5*36\r\n"))
	sess.Receive([]byte("$GPGSV,1,1,03,01,40,050,30,02,30,100,25,03,20,150,*4B\r\n"))

	require.Len(t, locs, 1)
	assert.Equal(t, Location3D, locs[0].Type)
	require.Len(t, sats, 1)
	assert.Equal(t, 3, sats[0].Count)
}

func TestSessionUBXFusesPVTDOPTimeGPSAndSVInfo(t *testing.T) {
	var locs []Location
	var sats []SatelliteSet
	sess := New(ModeUBlox, 5, &fakeSender{}, nopTimer{}, nil,
		func(l Location) { locs = append(locs, l) },
		func(s SatelliteSet) { sats = append(sats, s) },
	)

	const itow = uint32(123456000)

	pvt := make([]byte, 84)
	putU32(pvt, 0, itow)
	pvt[21] = 0x01 // fixOK
	framePVT := buildTestUBXFrame(0x01, 0x07, pvt)

	dop := make([]byte, 18)
	putU32(dop, 0, itow)
	frameDOP := buildTestUBXFrame(0x01, 0x04, dop)

	tg := make([]byte, 12)
	putU32(tg, 0, itow)
	tg[10] = 18
	tg[11] = 0x03
	frameTG := buildTestUBXFrame(0x01, 0x20, tg)

	svInfo := make([]byte, 8+12)
	putU32(svInfo, 0, itow)
	svInfo[8+1] = 5 // PRN 5
	svInfo[8+3] = 0x04
	frameSVInfo := buildTestUBXFrame(0x01, 0x30, svInfo)

	sess.Receive(framePVT)
	sess.Receive(frameDOP)
	sess.Receive(frameTG)
	require.Len(t, locs, 1, "PVT+DOP+TIMEGPS should complete the location half")

	sess.Receive(frameSVInfo)
	require.Len(t, sats, 1, "SVINFO alone should complete the constellation half")
	assert.Equal(t, 1, sats[0].Count)
}

func TestSessionUBXAckGatesDone(t *testing.T) {
	sender := &fakeSender{}
	sess := New(ModeUBlox, 5, sender, nopTimer{}, nil, nil, nil)
	sess.BeginTableReplay()
	require.False(t, sess.Done(), "a table was just started")

	for i := 0; i < 10 && !sess.Done(); i++ {
		frame := sender.sent[len(sender.sent)-1]
		class, id := frame[2], frame[3]
		sess.Receive(buildTestUBXAck(class, id, true))
	}
	assert.True(t, sess.Done())
}
