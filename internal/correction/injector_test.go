package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent [][]byte
}

func (r *recordingSender) Send(frame []byte, done func(error)) {
	r.sent = append(r.sent, append([]byte{}, frame...))
	if done != nil {
		done(nil)
	}
}

// A minimal, syntactically valid RTCM3 frame: preamble 0xD3, 10-bit length
// in the low bits of the next two bytes, a payload, and a 24-bit CRC. Since
// this test only exercises the injector's forwarding behaviour (not RTCM
// semantics), the payload content is arbitrary.
func buildRTCM3Frame(payload []byte) []byte {
	frame := make([]byte, 0, 3+len(payload)+3)
	frame = append(frame, 0xD3, byte(len(payload)>>8)&0x03, byte(len(payload)))
	frame = append(frame, payload...)
	crc := crc24q(frame)
	frame = append(frame, byte(crc>>16), byte(crc>>8), byte(crc))
	return frame
}

// crc24q is the Qualcomm CRC-24Q used by RTCM3 framing, reimplemented here
// only to build well-formed test fixtures.
func crc24q(data []byte) uint32 {
	const poly = 0x1864CFB
	var crc uint32
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= poly
			}
		}
	}
	return crc & 0xFFFFFF
}

func TestInjectorForwardsCompleteFrames(t *testing.T) {
	sender := &recordingSender{}
	inj := NewInjector(sender)

	frame := buildRTCM3Frame([]byte{0x01, 0x02, 0x03})
	inj.Write(frame)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, frame, sender.sent[0])
	forwarded, dropped := inj.Stats()
	assert.Equal(t, 1, forwarded)
	assert.Equal(t, 0, dropped)
}

func TestInjectorIgnoresGarbageBeforeSync(t *testing.T) {
	sender := &recordingSender{}
	inj := NewInjector(sender)

	frame := buildRTCM3Frame([]byte{0xAA})
	noise := append([]byte{0x00, 0xFF, 0x10}, frame...)
	inj.Write(noise)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, frame, sender.sent[0])
}

func TestInjectorHoldsPartialFrameAcrossWrites(t *testing.T) {
	sender := &recordingSender{}
	inj := NewInjector(sender)

	frame := buildRTCM3Frame([]byte{0x11, 0x22, 0x33, 0x44})
	inj.Write(frame[:4])
	assert.Empty(t, sender.sent, "a partial frame must not be forwarded yet")

	inj.Write(frame[4:])
	require.Len(t, sender.sent, 1)
	assert.Equal(t, frame, sender.sent[0])
}
