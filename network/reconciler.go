package network

import (
	"math"
	"time"

	"go.uber.org/zap"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/protocol"
)

// koFacingEpsilon is the displacement below which a knocked-out facing
// change counts as "facing only" and earns an out-of-cadence send.
const koFacingEpsilon = 1.0

// PositionReport is the per-frame summary the predictor hands the
// reconciler.
type PositionReport struct {
	X, Y               float64
	Facing             protocol.FacingDirection
	SprintingEffective bool
	KnockedOut         bool
}

// Reconciler paces outbound position updates and consumes row
// acknowledgments. Sends are fire-and-forget: a failed call is logged
// and superseded by the next interval's send. Acks only advance the
// watermark and feed divergence telemetry; the predicted position is
// never rewound to the server's.
type Reconciler struct {
	log     *zap.SugaredLogger
	call    func(any) error
	metrics *Metrics
	history *SendHistory

	seq            uint64
	sentAny        bool
	lastSendAt     time.Time
	lastSentX      float64
	lastSentY      float64
	lastSentFacing protocol.FacingDirection

	lastAckedSeq  uint64
	serverX       float64
	serverY       float64
	haveServerPos bool
}

// NewReconciler returns a reconciler sending through call.
func NewReconciler(log *zap.SugaredLogger, call func(any) error, metrics *Metrics) *Reconciler {
	return &Reconciler{
		log:     log,
		call:    call,
		metrics: metrics,
		history: NewSendHistory(cfg.Network.SendHistorySize),
	}
}

// MaybeSend fires an UpdatePosition if the send interval has elapsed, or
// immediately when a knocked-out player only turned: other clients should
// see the crawl's new facing without waiting out the cadence. Returns
// whether a send happened.
func (r *Reconciler) MaybeSend(rep PositionReport, now time.Time) bool {
	due := !r.sentAny || now.Sub(r.lastSendAt) >= cfg.Network.PositionUpdateInterval

	if !due {
		turnedInPlace := rep.KnockedOut &&
			rep.Facing != r.lastSentFacing &&
			math.Hypot(rep.X-r.lastSentX, rep.Y-r.lastSentY) < koFacingEpsilon
		if !turnedInPlace {
			return false
		}
	}

	r.seq++
	msg := protocol.UpdatePosition{
		Seq:         r.seq,
		X:           rep.X,
		Y:           rep.Y,
		Sprinting:   rep.SprintingEffective,
		Facing:      rep.Facing,
		TimestampMs: now.UnixMilli(),
	}

	r.history.Store(r.seq, rep.X, rep.Y, now)
	r.sentAny = true
	r.lastSendAt = now
	r.lastSentX = rep.X
	r.lastSentY = rep.Y
	r.lastSentFacing = rep.Facing
	r.metrics.Sends.Add(1)

	if err := r.call(msg); err != nil {
		r.metrics.SendErrors.Add(1)
		r.log.Warnf("position update %d failed: %v", r.seq, err)
	}
	return true
}

// OnAck consumes the local player row echoed by the server. Stale or
// repeated sequences change nothing, so replays are harmless.
func (r *Reconciler) OnAck(row protocol.Player, now time.Time) {
	if row.MoveSeq == 0 {
		// Server has not applied any of our updates yet.
		return
	}
	if row.MoveSeq <= r.lastAckedSeq {
		r.metrics.StaleAcks.Add(1)
		return
	}

	r.lastAckedSeq = row.MoveSeq
	r.serverX = row.X
	r.serverY = row.Y
	r.haveServerPos = true
	r.metrics.Acks.Add(1)

	if d, ok := r.history.Divergence(row.MoveSeq, row.X, row.Y); ok {
		r.metrics.ObserveDivergence(d)
		if rec, found := r.history.Get(row.MoveSeq); found {
			r.log.Debugf("ack seq=%d rtt=%s divergence=%.2f", row.MoveSeq, now.Sub(rec.SentAt), d)
		}
		if d > cfg.Network.DivergenceWarnDistance {
			// Rubber-banding stays off: surface the desync, do not snap.
			r.log.Warnf("prediction diverged %.1fpx from server at seq %d", d, row.MoveSeq)
		}
	}
}

// Seq returns the last sequence number sent.
func (r *Reconciler) Seq() uint64 {
	return r.seq
}

// LastAckedSeq returns the newest sequence the server has applied.
func (r *Reconciler) LastAckedSeq() uint64 {
	return r.lastAckedSeq
}

// LastServerPosition returns the last acknowledged server position.
func (r *Reconciler) LastServerPosition() (x, y float64, ok bool) {
	return r.serverX, r.serverY, r.haveServerPos
}

// Outstanding reports how many sends await acknowledgment.
func (r *Reconciler) Outstanding() int {
	return r.history.Outstanding(r.lastAckedSeq)
}
