// Package orchestrator drives a receiver's configuration workflow: a baud
// handshake followed by a table of init commands, each gated on its
// acknowledgement, plus a set of idempotent runtime setters that replay
// small ad-hoc tables through the same engine.
package orchestrator

import (
	"time"

	"github.com/bramburn/gnss-core/internal/driverlog"
	"github.com/bramburn/gnss-core/internal/envcap"
	"github.com/bramburn/gnss-core/internal/fusion"
	"go.uber.org/zap"
)

// Mode selects which protocol's acknowledgement and baud-handshake
// conventions the orchestrator speaks.
type Mode int

const (
	ModeNMEAPassive Mode = iota
	ModeMediatek
	ModeUBlox
)

// DefaultMaxRetries bounds UBX ACK-timeout resends (spec.md's Open Question
// on unbounded resend, resolved here with a configurable cap).
const DefaultMaxRetries = 5

// ackTimeout is the UBX per-command ACK wait before a resend.
const ackTimeout = 250 * time.Millisecond

// Orchestrator owns the pending-command slot and the table currently being
// replayed. It is not safe for concurrent use without external
// serialisation, matching the single-threaded cooperative model the core is
// specified against.
type Orchestrator struct {
	sender envcap.Sender
	timer  envcap.Timer
	mode   Mode
	acc    *fusion.Accumulator
	log    *zap.Logger

	maxRetries int

	table    []Entry
	tableIdx int
	inTable  bool

	pendingSet bool
	pendingID  int32
	retries    int

	sendOutstanding bool

	initDone bool
}

// New wires the send/timer capabilities, the protocol mode, and the fusion
// accumulator whose expected mask gets (re)armed once the init table
// completes. log may be nil, in which case the orchestrator stays silent.
func New(sender envcap.Sender, timer envcap.Timer, mode Mode, acc *fusion.Accumulator, log *zap.Logger) *Orchestrator {
	return &Orchestrator{sender: sender, timer: timer, mode: mode, acc: acc, maxRetries: DefaultMaxRetries, log: driverlog.OrNop(log)}
}

// SetMaxRetries overrides DefaultMaxRetries.
func (o *Orchestrator) SetMaxRetries(n int) { o.maxRetries = n }

// BeginBaudHandshake sends the vendor-specific baud-change sentence
// (PUBX,41 for u-blox, PMTK251 for Mediatek) at the receiver's current
// baud. The actual UART rebaud is an external-collaborator concern; once the
// caller has reopened the port at the new rate and observed a first valid
// frame, it calls StartInitTable to begin phase 2.
func (o *Orchestrator) BeginBaudHandshake(newBaud int) {
	var sentence string
	switch o.mode {
	case ModeUBlox:
		sentence = pubx41Sentence(newBaud)
	case ModeMediatek:
		sentence = pmtk251Sentence(newBaud)
	default:
		return
	}
	o.sender.Send([]byte(sentence), nil)
}

// StartInitTable begins phase 2: replaying table in order, one entry at a
// time, each gated on its acknowledgement.
func (o *Orchestrator) StartInitTable(table []Entry) {
	o.initDone = false
	o.startTable(table)
}

// StartSetterTable is the runtime-setter equivalent of StartInitTable. It
// fails with ok=false if a table is already in progress or a send is still
// outstanding, matching the spec's "busy" rejection.
func (o *Orchestrator) StartSetterTable(table []Entry) bool {
	if o.Busy() {
		return false
	}
	o.startTable(table)
	return true
}

// Busy reports whether a table is in progress or a send has not yet
// completed — the condition under which a runtime setter is rejected.
func (o *Orchestrator) Busy() bool {
	return o.inTable || o.sendOutstanding
}

// Done implements the spec's done(): true iff no table is in progress and no
// send is outstanding.
func (o *Orchestrator) Done() bool {
	return !o.Busy()
}

func (o *Orchestrator) startTable(table []Entry) {
	o.table = table
	o.tableIdx = 0
	o.inTable = len(table) > 0
	if o.inTable {
		o.sendCurrent()
	}
}

func (o *Orchestrator) sendCurrent() {
	entry := o.table[o.tableIdx]
	o.retries = 0
	o.sendOutstanding = true
	o.sender.Send(entry.Frame, func(err error) {
		o.sendOutstanding = false
		if err != nil || entry.NoAck {
			o.advance()
			return
		}
		o.pendingID = entry.PendingID
		o.pendingSet = true
		if o.mode == ModeUBlox {
			o.timer.Start(ackTimeout, o.onTimeout)
		}
	})
}

func (o *Orchestrator) onTimeout() {
	if !o.pendingSet || o.tableIdx >= len(o.table) {
		return
	}
	o.retries++
	if o.retries > o.maxRetries {
		// Give up on this entry; move on rather than stall the table forever.
		o.log.Warn("ack timeout: retry cap exceeded, abandoning entry",
			zap.Int("tableIdx", o.tableIdx), zap.Int("maxRetries", o.maxRetries))
		o.pendingSet = false
		o.advance()
		return
	}
	o.log.Debug("ack timeout: resending", zap.Int("tableIdx", o.tableIdx), zap.Int("retry", o.retries))
	entry := o.table[o.tableIdx]
	o.sendOutstanding = true
	o.sender.Send(entry.Frame, func(err error) {
		o.sendOutstanding = false
		if err != nil {
			o.advance()
			return
		}
		o.timer.Start(ackTimeout, o.onTimeout)
	})
}

// UBXAck implements ubx.AckSink.
func (o *Orchestrator) UBXAck(class, id byte, ack bool) {
	if !o.matchPending(ubxPendingID(class, id)) {
		return
	}
	if !ack {
		o.log.Warn("received NACK, advancing anyway", zap.Uint8("class", class), zap.Uint8("id", id))
	}
	o.timer.Stop()
	o.pendingSet = false
	o.advance()
}

// MediatekAck implements nmea.MediatekAckSink.
func (o *Orchestrator) MediatekAck(cmd, status int) {
	if !o.matchPending(mediatekPendingID(cmd)) {
		return
	}
	if status != 3 {
		o.log.Warn("received non-ack PMTK001 status, advancing anyway", zap.Int("cmd", cmd), zap.Int("status", status))
	}
	o.timer.Stop()
	o.pendingSet = false
	o.advance()
}

func (o *Orchestrator) matchPending(id int32) bool {
	return o.pendingSet && o.pendingID == id
}

func (o *Orchestrator) advance() {
	o.tableIdx++
	if o.tableIdx >= len(o.table) {
		o.finishTable()
		return
	}
	o.sendCurrent()
}

func (o *Orchestrator) finishTable() {
	o.inTable = false
	o.table = nil
	if !o.initDone {
		o.initDone = true
		o.acc.Reset()
		if o.mode == ModeUBlox {
			o.acc.SetUBXDefaults()
		} else {
			o.acc.SetNMEADefaults()
		}
	}
}
