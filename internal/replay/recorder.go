package replay

import (
	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/world"
)

// Recorder feeds a Writer from the event bus and takes a position frame
// every FrameInterval ticks. Single-goroutine access only (simulation loop).
type Recorder struct {
	w        *Writer
	log      *zap.Logger
	interval uint64
	tick     uint64
	failed   bool
}

// NewRecorder subscribes to every simulation event on bus.
func NewRecorder(w *Writer, bus *event.Bus, frameInterval int, log *zap.Logger) *Recorder {
	if frameInterval <= 0 {
		frameInterval = 1
	}
	r := &Recorder{w: w, log: log, interval: uint64(frameInterval)}

	subscribe(r, bus, "torpedo_launched", func(e event.TorpedoLaunched) float64 { return e.Time })
	subscribe(r, bus, "torpedo_hit", func(e event.TorpedoHit) float64 { return e.Time })
	subscribe(r, bus, "torpedo_dud", func(e event.TorpedoDud) float64 { return e.Time })
	subscribe(r, bus, "torpedo_ran_out", func(e event.TorpedoRanOut) float64 { return e.Time })
	subscribe(r, bus, "shell_impact", func(e event.ShellImpact) float64 { return e.Time })
	subscribe(r, bus, "shell_splash", func(e event.ShellSplash) float64 { return e.Time })
	subscribe(r, bus, "depth_charge_exploded", func(e event.DepthChargeExploded) float64 { return e.Time })
	subscribe(r, bus, "contact_adopted", func(e event.ContactAdopted) float64 { return e.Time })
	subscribe(r, bus, "ping", func(e event.PingEmitted) float64 { return e.Time })
	subscribe(r, bus, "gun_fired", func(e event.GunFired) float64 { return e.Time })
	subscribe(r, bus, "vessel_sunk", func(e event.VesselSunk) float64 { return e.Time })
	return r
}

func subscribe[T any](r *Recorder, bus *event.Bus, name string, at func(T) float64) {
	event.Subscribe(bus, func(e T) {
		if err := r.w.AppendEvent(r.tick, at(e), name, e); err != nil {
			r.fail("append event", err)
		}
	})
}

// Tick advances the recorder's tick counter and writes a frame when due.
func (r *Recorder) Tick(s *world.State) {
	r.tick++
	if r.tick%r.interval != 0 {
		return
	}
	if err := r.w.AppendFrame(Capture(s, r.tick)); err != nil {
		r.fail("append frame", err)
	}
}

// Ticks is the number of ticks seen so far.
func (r *Recorder) Ticks() uint64 { return r.tick }

// Close writes a last frame and closes the bundle.
func (r *Recorder) Close(s *world.State) error {
	if s != nil && r.tick%r.interval != 0 {
		if err := r.w.AppendFrame(Capture(s, r.tick)); err != nil {
			r.fail("append frame", err)
		}
	}
	return r.w.Close()
}

// fail logs the first write error only; a broken disk must not flood the log.
func (r *Recorder) fail(op string, err error) {
	if r.failed {
		return
	}
	r.failed = true
	r.log.Error("replay write failed", zap.String("op", op), zap.String("dir", r.w.Directory()), zap.Error(err))
}
