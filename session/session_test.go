package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SeloSlav/saltgrass-client/network"
	"github.com/SeloSlav/saltgrass-client/protocol"
)

func newTestSession() *Session {
	log := zap.NewNop().Sugar()
	return New(log, network.NewClient(log), Options{PlayerName: "tester"})
}

func TestSnapshotAvailableBeforeFirstFrame(t *testing.T) {
	s := newTestSession()

	snap := s.Snapshot()
	require.NotNil(t, snap, "readers must never see a nil snapshot")
	assert.False(t, snap.LocalActive)
	assert.Empty(t, snap.Remotes)
}

func TestFramePublishesWorldRows(t *testing.T) {
	s := newTestSession()
	t0 := time.Unix(1000, 0)

	// Rows already replicated before the first frame.
	s.World().Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		Players: []protocol.Player{
			{ID: 2, Name: "other", X: 250, Y: 350, Facing: protocol.FacingLeft},
		},
	}, t0)

	s.Frame(t0)

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, t0, snap.Generated)
	assert.False(t, snap.LocalActive, "no welcome, no local prediction")
	require.Len(t, snap.Remotes, 1)
	assert.Equal(t, "other", snap.Remotes[0].Name)
	assert.Equal(t, 250.0, snap.Remotes[0].X)
	assert.Equal(t, protocol.FacingLeft, snap.Remotes[0].Facing)
}

func TestFrameThrottles(t *testing.T) {
	s := newTestSession()
	t0 := time.Unix(1000, 0)

	s.Frame(t0)
	s.Frame(t0.Add(5 * time.Millisecond))
	s.Frame(t0.Add(10 * time.Millisecond))
	s.Frame(t0.Add(20 * time.Millisecond))

	m := s.Metrics().Snapshot()
	assert.Equal(t, uint64(4), m.Frames)
	assert.Equal(t, uint64(2), m.SkippedFrames, "sub-16ms frames must be skipped")
}

func TestFrameRecoversFromPanic(t *testing.T) {
	// A nil client stands in for any mid-frame failure.
	s := New(zap.NewNop().Sugar(), nil, Options{})

	assert.NotPanics(t, func() {
		s.Frame(time.Unix(1000, 0))
		s.Frame(time.Unix(1000, 1))
	})
	assert.GreaterOrEqual(t, s.Metrics().Snapshot().SkippedFrames, uint64(2))
}

func TestOutstandingStartsAtZero(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, 0, s.Outstanding())
	assert.Equal(t, network.StateDisconnected, s.ClientState())
}
