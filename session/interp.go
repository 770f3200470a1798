package session

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

// Remote rows arrive on the server cadence; tween windows are clamped so
// a late row still smooths instead of crawling or snapping.
const (
	minInterpWindow = 0.025
	maxInterpWindow = 0.25
)

// remoteTrack carries one remote player's display position between rows.
type remoteTrack struct {
	x, y      float64
	tweenX    *gween.Tween
	tweenY    *gween.Tween
	lastRow   protocol.Player
	lastRowAt time.Time
}

// RemoteInterp smooths remote player positions between snapshot rows.
// The local player never goes through here; prediction owns it.
type RemoteInterp struct {
	tracks map[protocol.PlayerID]*remoteTrack
}

// NewRemoteInterp returns an empty interpolator.
func NewRemoteInterp() *RemoteInterp {
	return &RemoteInterp{tracks: make(map[protocol.PlayerID]*remoteTrack)}
}

// Observe syncs tracks against the player table after deltas applied.
// First sight of a player snaps; later rows start a tween over the
// observed arrival gap. Tracks of departed players are dropped.
func (ri *RemoteInterp) Observe(players *orderedmap.OrderedMap[protocol.PlayerID, protocol.Player], localID protocol.PlayerID, now time.Time) {
	alive := make(map[protocol.PlayerID]bool, players.Len())

	for el := players.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.ID == localID {
			continue
		}
		alive[row.ID] = true

		tr, ok := ri.tracks[row.ID]
		if !ok {
			ri.tracks[row.ID] = &remoteTrack{x: row.X, y: row.Y, lastRow: row, lastRowAt: now}
			continue
		}

		if row.X != tr.lastRow.X || row.Y != tr.lastRow.Y {
			window := now.Sub(tr.lastRowAt).Seconds()
			if window < minInterpWindow {
				window = minInterpWindow
			}
			if window > maxInterpWindow {
				window = maxInterpWindow
			}
			tr.tweenX = gween.New(float32(tr.x), float32(row.X), float32(window), ease.Linear)
			tr.tweenY = gween.New(float32(tr.y), float32(row.Y), float32(window), ease.Linear)
			tr.lastRowAt = now
		}
		tr.lastRow = row
	}

	for id := range ri.tracks {
		if !alive[id] {
			delete(ri.tracks, id)
		}
	}
}

// Advance steps every active tween by dt seconds.
func (ri *RemoteInterp) Advance(dt float64) {
	for _, tr := range ri.tracks {
		if tr.tweenX != nil {
			v, done := tr.tweenX.Update(float32(dt))
			tr.x = float64(v)
			if done {
				tr.tweenX = nil
			}
		}
		if tr.tweenY != nil {
			v, done := tr.tweenY.Update(float32(dt))
			tr.y = float64(v)
			if done {
				tr.tweenY = nil
			}
		}
	}
}

// Position returns the smoothed position for a remote player id.
func (ri *RemoteInterp) Position(id protocol.PlayerID) (x, y float64, ok bool) {
	tr, ok := ri.tracks[id]
	if !ok {
		return 0, 0, false
	}
	return tr.x, tr.y, true
}
