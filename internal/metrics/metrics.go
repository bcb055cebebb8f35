// Package metrics exposes the simulation as Prometheus metrics: tick cost,
// simulated clock, live entity counts and counters fed from the event bus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/world"
)

// SimCollector bundles the Prometheus metrics of one simulation run.
type SimCollector struct {
	gatherer prometheus.Gatherer

	TickDuration prometheus.Histogram
	SimTime      prometheus.Gauge
	Entities     *prometheus.GaugeVec
	Events       *prometheus.CounterVec
	Duds         *prometheus.CounterVec
	TonnageSunk  *prometheus.CounterVec
}

// NewSimCollector registers the simulation metrics against reg, defaulting
// to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tick, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tactsim_tick_duration_seconds",
		Help:    "Wall time spent in one simulation tick.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "tactsim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	simTime, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tactsim_sim_time_seconds",
		Help: "Simulated clock of the run.",
	}), "tactsim_sim_time_seconds")
	if err != nil {
		return nil, err
	}
	entities, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tactsim_entities",
		Help: "Live entities by kind.",
	}, []string{"kind"}), "tactsim_entities")
	if err != nil {
		return nil, err
	}
	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tactsim_events_total",
		Help: "Simulation events by type.",
	}, []string{"type"}), "tactsim_events_total")
	if err != nil {
		return nil, err
	}
	duds, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tactsim_torpedo_duds_total",
		Help: "Torpedoes that reached a hull or were stopped without detonating, by reason.",
	}, []string{"reason"}), "tactsim_torpedo_duds_total")
	if err != nil {
		return nil, err
	}
	tonnage, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tactsim_tonnage_sunk_total",
		Help: "Tonnage lost, labeled by vessel type and cause.",
	}, []string{"vessel", "cause"}), "tactsim_tonnage_sunk_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:     gatherer,
		TickDuration: tick,
		SimTime:      simTime,
		Entities:     entities,
		Events:       events,
		Duds:         duds,
		TonnageSunk:  tonnage,
	}, nil
}

// ObserveTick records the cost of one tick and the state it left.
func (c *SimCollector) ObserveTick(d time.Duration, simTime float64, n world.Counts) {
	if c == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
	c.SimTime.Set(simTime)
	c.Entities.WithLabelValues("ships").Set(float64(n.Ships))
	c.Entities.WithLabelValues("submarines").Set(float64(n.Submarines))
	c.Entities.WithLabelValues("torpedoes").Set(float64(n.Torpedoes))
	c.Entities.WithLabelValues("shells").Set(float64(n.Shells))
	c.Entities.WithLabelValues("depth_charges").Set(float64(n.DepthCharges))
	c.Entities.WithLabelValues("convoys").Set(float64(n.Convoys))
	c.Entities.WithLabelValues("pings").Set(float64(n.Pings))
}

// Subscribe feeds the event counters from a bus.
func (c *SimCollector) Subscribe(bus *event.Bus) {
	count := func(name string) { c.Events.WithLabelValues(name).Inc() }

	event.Subscribe(bus, func(event.TorpedoLaunched) { count("torpedo_launched") })
	event.Subscribe(bus, func(event.TorpedoHit) { count("torpedo_hit") })
	event.Subscribe(bus, func(e event.TorpedoDud) {
		count("torpedo_dud")
		c.Duds.WithLabelValues(e.Reason.String()).Inc()
	})
	event.Subscribe(bus, func(event.TorpedoRanOut) { count("torpedo_ran_out") })
	event.Subscribe(bus, func(event.ShellImpact) { count("shell_impact") })
	event.Subscribe(bus, func(event.ShellSplash) { count("shell_splash") })
	event.Subscribe(bus, func(event.DepthChargeExploded) { count("depth_charge_exploded") })
	event.Subscribe(bus, func(event.ContactAdopted) { count("contact_adopted") })
	event.Subscribe(bus, func(event.PingEmitted) { count("ping") })
	event.Subscribe(bus, func(event.GunFired) { count("gun_fired") })
	event.Subscribe(bus, func(e event.VesselSunk) {
		count("vessel_sunk")
		vessel := "ship"
		if e.Submarine {
			vessel = "submarine"
		}
		c.TonnageSunk.WithLabelValues(vessel, e.Cause).Add(float64(e.Tonnage))
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register adds a collector, reusing an identical one already registered
// under the same name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
