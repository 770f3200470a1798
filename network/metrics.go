package network

import (
	"math"
	"sync/atomic"
)

// Metrics counts what the frame loop and the reconciler have been doing.
// Counters are atomic so the harness or a HUD can read them from another
// goroutine without touching simulation state.
type Metrics struct {
	Frames        atomic.Uint64
	SkippedFrames atomic.Uint64
	Sends         atomic.Uint64
	SendErrors    atomic.Uint64
	Acks          atomic.Uint64
	StaleAcks     atomic.Uint64

	maxDivergence atomic.Uint64 // float64 bits
}

// ObserveDivergence records a measured divergence, keeping the maximum.
func (m *Metrics) ObserveDivergence(d float64) {
	for {
		cur := m.maxDivergence.Load()
		if d <= math.Float64frombits(cur) {
			return
		}
		if m.maxDivergence.CompareAndSwap(cur, math.Float64bits(d)) {
			return
		}
	}
}

// MaxDivergence returns the largest divergence seen this session.
func (m *Metrics) MaxDivergence() float64 {
	return math.Float64frombits(m.maxDivergence.Load())
}

// MetricsSnapshot is a point-in-time copy for logging.
type MetricsSnapshot struct {
	Frames        uint64
	SkippedFrames uint64
	Sends         uint64
	SendErrors    uint64
	Acks          uint64
	StaleAcks     uint64
	MaxDivergence float64
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Frames:        m.Frames.Load(),
		SkippedFrames: m.SkippedFrames.Load(),
		Sends:         m.Sends.Load(),
		SendErrors:    m.SendErrors.Load(),
		Acks:          m.Acks.Load(),
		StaleAcks:     m.StaleAcks.Load(),
		MaxDivergence: m.MaxDivergence(),
	}
}
