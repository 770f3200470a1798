// Package session runs the per-connection frame loop: it drains row
// deltas onto the world cache, steps input through prediction and
// reconciliation, smooths remote players, and publishes render snapshots.
// Everything stateful runs on one goroutine; the snapshot pointer is the
// only hand-off to readers.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/input"
	"github.com/SeloSlav/saltgrass-client/movement"
	"github.com/SeloSlav/saltgrass-client/network"
	"github.com/SeloSlav/saltgrass-client/protocol"
	"github.com/SeloSlav/saltgrass-client/world"
)

// frameInterval paces Run's ticker at the display-refresh rate the
// predictor throttles to anyway.
const frameInterval = time.Second / 60

// Options configure a session.
type Options struct {
	Address        string
	Version        string
	PlayerName     string
	ReconnectToken string

	// Forward recovered frame panics to Sentry (requires sentry.Init in
	// the binary).
	SentryEnabled bool
}

// Session orchestrates one connection's simulation loop.
type Session struct {
	log  *zap.SugaredLogger
	opts Options

	client  *network.Client
	world   *world.State
	sampler *input.Sampler
	pred    *movement.Predictor
	rec     *network.Reconciler
	interp  *RemoteInterp
	metrics *network.Metrics

	snapshot atomic.Pointer[RenderSnapshot]

	welcomed     bool
	predictionOK bool
	crouchHeld   bool
	lastStep     time.Time
}

// New wires a session around the given client.
func New(log *zap.SugaredLogger, client *network.Client, opts Options) *Session {
	w := world.NewState()
	metrics := &network.Metrics{}

	s := &Session{
		log:     log,
		opts:    opts,
		client:  client,
		world:   w,
		sampler: input.NewSampler(),
		pred:    movement.NewPredictor(log.Named("predictor"), w),
		interp:  NewRemoteInterp(),
		metrics: metrics,
	}
	s.rec = network.NewReconciler(log.Named("reconciler"), client.Call, metrics)
	s.snapshot.Store(&RenderSnapshot{})
	return s
}

// Connect starts the handshake with the configured server.
func (s *Session) Connect() {
	s.client.Connect(s.opts.Address, s.opts.Version, s.opts.PlayerName,
		s.opts.ReconnectToken, cfg.ConstantsChecksum())
}

// Sampler exposes the input sampler so a keyboard poller or a scripted
// bot can feed transitions.
func (s *Session) Sampler() *input.Sampler {
	return s.sampler
}

// World exposes the replicated state cache. Read it from the simulation
// goroutine only.
func (s *Session) World() *world.State {
	return s.world
}

// Metrics exposes the frame and reconciliation counters.
func (s *Session) Metrics() *network.Metrics {
	return s.metrics
}

// Snapshot returns the latest published render snapshot. Safe from any
// goroutine.
func (s *Session) Snapshot() *RenderSnapshot {
	return s.snapshot.Load()
}

// ClientState reports the connection state for status displays.
func (s *Session) ClientState() network.ClientState {
	return s.client.State()
}

// Outstanding is the number of sent position updates the server has not
// acknowledged yet.
func (s *Session) Outstanding() int {
	return s.rec.Outstanding()
}

// Run steps frames until the context ends.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Frame(now)
		}
	}
}

// Frame advances the session by one frame. A panic anywhere inside skips
// the frame instead of killing the loop.
func (s *Session) Frame(now time.Time) {
	defer s.recoverFrame()
	s.metrics.Frames.Add(1)

	// --- Session state ---
	if !s.welcomed && s.client.State() == network.StateJoined {
		s.onWelcome()
	}

	// --- Inbound rows ---
	deltas := s.client.DrainDeltas()
	for _, delta := range deltas {
		s.world.Apply(delta, now)
		for _, row := range delta.Players {
			if row.ID == s.world.LocalPlayerID() {
				s.rec.OnAck(row, now)
			}
		}
	}
	if len(deltas) > 0 {
		s.interp.Observe(s.world.Players, s.world.LocalPlayerID(), now)
	}
	s.world.PruneExpiredEffects(s.world.EstimatedServerTimeMs(now))

	// --- Frame pacing ---
	if s.lastStep.IsZero() {
		s.lastStep = now
		s.publish(now)
		return
	}
	elapsed := now.Sub(s.lastStep)
	if elapsed.Seconds() < cfg.Movement.MinFrameDelta {
		s.metrics.SkippedFrames.Add(1)
		return
	}
	dt := elapsed.Seconds()
	s.lastStep = now

	// --- One-shot actions ---
	if s.welcomed {
		s.dispatchActions()
	}

	// --- Predict and report ---
	sample, _ := s.sampler.Sample()
	if s.welcomed && s.predictionOK {
		res := s.pred.Step(sample, dt, now)
		if res.Active {
			s.rec.MaybeSend(network.PositionReport{
				X:                  res.Position.X(),
				Y:                  res.Position.Y(),
				Facing:             res.Facing,
				SprintingEffective: res.SprintingEffective,
				KnockedOut:         res.KnockedOut,
			}, now)
		}
	}

	// --- Remote smoothing ---
	s.interp.Advance(dt)

	s.publish(now)
}

// Close tears the session down: input cleared, connection closed, router
// callbacks detached so nothing keeps mutating a dead world.
func (s *Session) Close() {
	s.sampler.FocusLost()
	s.client.Disconnect()

	snap := s.metrics.Snapshot()
	s.log.Infof("session closed: frames=%d sends=%d acks=%d stale=%d sendErrs=%d maxDivergence=%.1f",
		snap.Frames, snap.Sends, snap.Acks, snap.StaleAcks, snap.SendErrors, snap.MaxDivergence)
}

func (s *Session) onWelcome() {
	s.welcomed = true
	s.world.SetLocalPlayerID(s.client.PlayerID())
	s.predictionOK = s.client.ChecksumOK()

	if !s.predictionOK {
		s.log.Errorf("prediction disabled for this session: constant tables differ from server")
	}
	if w, h := s.client.WorldSize(); w > 0 && (w != cfg.World.WidthPx() || h != cfg.World.HeightPx()) {
		s.log.Warnf("server world %gx%g differs from built-in %gx%g",
			w, h, cfg.World.WidthPx(), cfg.World.HeightPx())
	}
}

// dispatchActions turns queued key presses and the crouch hold state into
// server calls. Failed calls are logged and dropped; the world row is the
// only confirmation that matters.
func (s *Session) dispatchActions() {
	for _, action := range s.sampler.TakePressed() {
		switch action {
		case cfg.ActionJump:
			s.callLogged(protocol.Jump{})
		case cfg.ActionDodgeRoll:
			sample, _ := s.sampler.Sample()
			dir := sample.Direction
			if dir.Len() == 0 {
				dir = movement.FacingVector(s.pred.Facing())
			}
			s.callLogged(protocol.StartDodgeRoll{DirX: dir.X(), DirY: dir.Y()})
		case cfg.ActionAutoWalk:
			s.pred.ToggleAutoWalk()
			s.log.Debugf("auto-walk %v", s.pred.AutoWalking())
		}
	}

	if held := s.sampler.Held(cfg.ActionCrouch); held != s.crouchHeld {
		s.crouchHeld = held
		s.callLogged(protocol.SetCrouching{Crouching: held})
	}
}

func (s *Session) callLogged(msg any) {
	if err := s.client.Call(msg); err != nil {
		s.log.Warnf("call %T failed: %v", msg, err)
	}
}

// publish swaps in a fresh snapshot for readers.
func (s *Session) publish(now time.Time) {
	snap := &RenderSnapshot{
		Generated:   now,
		LocalID:     s.world.LocalPlayerID(),
		AutoWalking: s.pred.AutoWalking(),
	}

	if s.pred.Initialized() {
		pos := s.pred.Position()
		snap.LocalActive = true
		snap.LocalX = pos.X()
		snap.LocalY = pos.Y()
		snap.LocalFacing = s.pred.Facing()
	}

	localID := s.world.LocalPlayerID()
	for el := s.world.Players.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.ID == localID {
			continue
		}
		x, y := row.X, row.Y
		if ix, iy, ok := s.interp.Position(row.ID); ok {
			x, y = ix, iy
		}
		snap.Remotes = append(snap.Remotes, RemoteView{
			ID:           row.ID,
			Name:         row.Name,
			X:            x,
			Y:            y,
			Facing:       row.Facing,
			IsSprinting:  row.IsSprinting,
			IsCrouching:  row.IsCrouching,
			IsKnockedOut: row.IsKnockedOut,
			IsDead:       row.IsDead,
		})
	}

	s.snapshot.Store(snap)
}

// recoverFrame keeps a panicking frame from taking the loop down. The
// panic is logged, optionally forwarded to Sentry, and the frame's
// partial work is abandoned; the next tick starts clean.
func (s *Session) recoverFrame() {
	r := recover()
	if r == nil {
		return
	}

	s.metrics.SkippedFrames.Add(1)
	s.log.Errorf("frame panic recovered: %v", r)

	if s.opts.SentryEnabled {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("component", "session")
			scope.SetTag("player", s.opts.PlayerName)
		})
		hub.Recover(r)
	}
}
