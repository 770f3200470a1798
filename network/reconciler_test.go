package network

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

// sendSpy captures outbound calls and can be told to fail.
type sendSpy struct {
	sent []protocol.UpdatePosition
	err  error
}

func (s *sendSpy) call(msg any) error {
	if up, ok := msg.(protocol.UpdatePosition); ok {
		s.sent = append(s.sent, up)
	}
	return s.err
}

func newTestReconciler() (*Reconciler, *sendSpy, *Metrics) {
	spy := &sendSpy{}
	m := &Metrics{}
	return NewReconciler(zap.NewNop().Sugar(), spy.call, m), spy, m
}

func report(x, y float64) PositionReport {
	return PositionReport{X: x, Y: y, Facing: protocol.FacingDown}
}

func TestMaybeSendFirstFiresImmediately(t *testing.T) {
	r, spy, m := newTestReconciler()
	t0 := time.Unix(1000, 0)

	sent := r.MaybeSend(report(10, 20), t0)

	require.True(t, sent)
	require.Len(t, spy.sent, 1)
	msg := spy.sent[0]
	assert.Equal(t, uint64(1), msg.Seq)
	assert.Equal(t, 10.0, msg.X)
	assert.Equal(t, 20.0, msg.Y)
	assert.Equal(t, protocol.FacingDown, msg.Facing)
	assert.Equal(t, t0.UnixMilli(), msg.TimestampMs)
	assert.Equal(t, uint64(1), m.Sends.Load())
}

func TestMaybeSendHonorsCadence(t *testing.T) {
	r, spy, _ := newTestReconciler()
	t0 := time.Unix(1000, 0)

	require.True(t, r.MaybeSend(report(10, 20), t0))
	assert.False(t, r.MaybeSend(report(11, 20), t0.Add(10*time.Millisecond)),
		"movement alone must not trigger a send")
	assert.True(t, r.MaybeSend(report(12, 20), t0.Add(25*time.Millisecond)))
	assert.Len(t, spy.sent, 2)
}

func TestMaybeSendSequencesStrictlyIncrease(t *testing.T) {
	r, spy, _ := newTestReconciler()
	now := time.Unix(1000, 0)

	for i := 0; i < 10; i++ {
		require.True(t, r.MaybeSend(report(float64(i), 0), now))
		now = now.Add(25 * time.Millisecond)
	}

	require.Len(t, spy.sent, 10)
	for i, msg := range spy.sent {
		assert.Equal(t, uint64(i+1), msg.Seq)
	}
}

func TestMaybeSendKnockedOutFacingFastPath(t *testing.T) {
	r, spy, _ := newTestReconciler()
	t0 := time.Unix(1000, 0)

	first := PositionReport{X: 10, Y: 20, Facing: protocol.FacingDown, KnockedOut: true}
	require.True(t, r.MaybeSend(first, t0))

	t.Run("turn in place sends out of cadence", func(t *testing.T) {
		turned := PositionReport{X: 10.2, Y: 20, Facing: protocol.FacingLeft, KnockedOut: true}
		assert.True(t, r.MaybeSend(turned, t0.Add(5*time.Millisecond)))
	})

	t.Run("same facing stays on cadence", func(t *testing.T) {
		same := PositionReport{X: 10.2, Y: 20, Facing: protocol.FacingLeft, KnockedOut: true}
		assert.False(t, r.MaybeSend(same, t0.Add(10*time.Millisecond)))
	})

	t.Run("real displacement stays on cadence", func(t *testing.T) {
		moved := PositionReport{X: 18, Y: 20, Facing: protocol.FacingRight, KnockedOut: true}
		assert.False(t, r.MaybeSend(moved, t0.Add(12*time.Millisecond)))
	})

	t.Run("upright players get no fast path", func(t *testing.T) {
		upright := PositionReport{X: 10.2, Y: 20, Facing: protocol.FacingUp}
		assert.False(t, r.MaybeSend(upright, t0.Add(14*time.Millisecond)))
	})

	assert.Len(t, spy.sent, 2)
}

func TestMaybeSendSurvivesCallFailure(t *testing.T) {
	r, spy, m := newTestReconciler()
	spy.err = errors.New("socket closed")
	t0 := time.Unix(1000, 0)

	assert.True(t, r.MaybeSend(report(10, 20), t0))
	assert.Equal(t, uint64(1), m.SendErrors.Load())

	spy.err = nil
	assert.True(t, r.MaybeSend(report(11, 20), t0.Add(25*time.Millisecond)))
	assert.Equal(t, uint64(2), spy.sent[1].Seq, "failed send still consumed its sequence")
}

func TestOnAckAdvancesWatermark(t *testing.T) {
	r, _, m := newTestReconciler()
	t0 := time.Unix(1000, 0)
	require.True(t, r.MaybeSend(report(100, 100), t0))

	r.OnAck(protocol.Player{ID: 1, MoveSeq: 1, X: 103, Y: 104}, t0.Add(30*time.Millisecond))

	assert.Equal(t, uint64(1), r.LastAckedSeq())
	assert.Equal(t, uint64(1), m.Acks.Load())
	assert.InDelta(t, 5.0, m.MaxDivergence(), 1e-12)

	x, y, ok := r.LastServerPosition()
	require.True(t, ok)
	assert.Equal(t, 103.0, x)
	assert.Equal(t, 104.0, y)
}

func TestOnAckIdempotent(t *testing.T) {
	r, _, m := newTestReconciler()
	t0 := time.Unix(1000, 0)
	r.MaybeSend(report(100, 100), t0)
	r.MaybeSend(report(110, 100), t0.Add(25*time.Millisecond))

	ack := protocol.Player{ID: 1, MoveSeq: 2, X: 110, Y: 100}
	r.OnAck(ack, t0.Add(50*time.Millisecond))
	r.OnAck(ack, t0.Add(60*time.Millisecond))
	r.OnAck(protocol.Player{ID: 1, MoveSeq: 1, X: 99, Y: 99}, t0.Add(70*time.Millisecond))

	assert.Equal(t, uint64(2), r.LastAckedSeq(), "stale acks must not rewind")
	assert.Equal(t, uint64(1), m.Acks.Load())
	assert.Equal(t, uint64(2), m.StaleAcks.Load())

	x, y, _ := r.LastServerPosition()
	assert.Equal(t, 110.0, x, "stale ack must not move the server reference")
	assert.Equal(t, 100.0, y)
}

func TestOnAckBeforeAnyApply(t *testing.T) {
	r, _, m := newTestReconciler()

	r.OnAck(protocol.Player{ID: 1, MoveSeq: 0, X: 50, Y: 50}, time.Unix(1000, 0))

	assert.Equal(t, uint64(0), r.LastAckedSeq())
	assert.Zero(t, m.Acks.Load())
	assert.Zero(t, m.StaleAcks.Load())
	_, _, ok := r.LastServerPosition()
	assert.False(t, ok)
}

func TestOutstandingTracksUnacked(t *testing.T) {
	r, _, _ := newTestReconciler()
	now := time.Unix(1000, 0)

	for i := 0; i < 3; i++ {
		r.MaybeSend(report(float64(i), 0), now)
		now = now.Add(25 * time.Millisecond)
	}
	assert.Equal(t, 3, r.Outstanding())

	r.OnAck(protocol.Player{ID: 1, MoveSeq: 2, X: 1, Y: 0}, now)
	assert.Equal(t, 1, r.Outstanding())
}

func TestMetricsMaxDivergence(t *testing.T) {
	m := &Metrics{}
	m.ObserveDivergence(3)
	m.ObserveDivergence(12)
	m.ObserveDivergence(7)

	assert.Equal(t, 12.0, m.MaxDivergence())

	snap := m.Snapshot()
	assert.Equal(t, 12.0, snap.MaxDivergence)
}
