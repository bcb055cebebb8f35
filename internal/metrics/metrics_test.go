package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/world"
)

func TestObserveTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	require.NoError(t, err)

	c.ObserveTick(2*time.Millisecond, 12.5, world.Counts{Ships: 4, Submarines: 1, Torpedoes: 2})

	assert.Equal(t, 12.5, testutil.ToFloat64(c.SimTime))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.Entities.WithLabelValues("ships")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Entities.WithLabelValues("torpedoes")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.TickDuration))
}

func TestEventCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	require.NoError(t, err)
	bus := event.NewBus()
	c.Subscribe(bus)

	event.Emit(bus, event.TorpedoDud{Reason: event.DudMalfunction})
	event.Emit(bus, event.TorpedoDud{Reason: event.DudShortRun})
	event.Emit(bus, event.VesselSunk{Tonnage: 7176, Cause: "torpedo"})
	event.Emit(bus, event.VesselSunk{Tonnage: 769, Submarine: true, Cause: "depth charge"})
	bus.SwapBuffers()
	bus.DispatchAll()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Events.WithLabelValues("torpedo_dud")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Duds.WithLabelValues("malfunction")))
	assert.Equal(t, 7176.0, testutil.ToFloat64(c.TonnageSunk.WithLabelValues("ship", "torpedo")))
	assert.Equal(t, 769.0, testutil.ToFloat64(c.TonnageSunk.WithLabelValues("submarine", "depth charge")))
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewSimCollector(reg)
	require.NoError(t, err)
	b, err := NewSimCollector(reg)
	require.NoError(t, err)
	assert.Same(t, a.Events, b.Events)
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	require.NoError(t, err)
	c.ObserveTick(time.Millisecond, 1, world.Counts{Ships: 3})

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `tactsim_entities{kind="ships"} 3`), body)
	assert.Contains(t, body, "tactsim_tick_duration_seconds_count 1")
}
