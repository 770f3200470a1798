// Package network owns the websocket session and the position
// reconciliation protocol: cadence-paced sequence-numbered sends out,
// row acknowledgments in. Server rows never move the predicted position;
// they only retire sequences and feed divergence telemetry.
package network

import (
	"math"
	"time"
)

// SendRecord stores one outbound position update and when it left.
type SendRecord struct {
	Seq    uint64
	X, Y   float64
	SentAt time.Time
}

// SendHistory is a ring of recent sends keyed by sequence, sized so that
// every ack arriving within a couple of seconds still finds its record.
type SendHistory struct {
	records []SendRecord
	nextSeq uint64
}

// NewSendHistory returns a history holding size records.
func NewSendHistory(size int) *SendHistory {
	if size <= 0 {
		size = 1
	}
	return &SendHistory{records: make([]SendRecord, size)}
}

// Store saves a sent position under its sequence number.
func (h *SendHistory) Store(seq uint64, x, y float64, sentAt time.Time) {
	h.records[seq%uint64(len(h.records))] = SendRecord{Seq: seq, X: x, Y: y, SentAt: sentAt}
	h.nextSeq = seq + 1
}

// Get retrieves a record by sequence. Returns false when the slot has
// been overwritten by a newer send or was never written.
func (h *SendHistory) Get(seq uint64) (SendRecord, bool) {
	if seq == 0 {
		return SendRecord{}, false
	}
	rec := h.records[seq%uint64(len(h.records))]
	if rec.Seq != seq {
		return SendRecord{}, false
	}
	return rec, true
}

// Divergence measures how far the position we predicted at send time
// lies from where the server placed us when it applied that sequence.
func (h *SendHistory) Divergence(seq uint64, serverX, serverY float64) (float64, bool) {
	rec, ok := h.Get(seq)
	if !ok {
		return 0, false
	}
	dx := rec.X - serverX
	dy := rec.Y - serverY
	return math.Sqrt(dx*dx + dy*dy), true
}

// Outstanding counts sends newer than the last acknowledged sequence.
func (h *SendHistory) Outstanding(lastAcked uint64) int {
	if h.nextSeq == 0 || lastAcked+1 >= h.nextSeq {
		return 0
	}
	return int(h.nextSeq - lastAcked - 1)
}
