package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversAfterSwap(t *testing.T) {
	b := NewBus()
	var got []float64
	Subscribe(b, func(e PingEmitted) { got = append(got, e.Time) })

	Emit(b, PingEmitted{Time: 1})
	Emit(b, PingEmitted{Time: 2})
	b.DispatchAll()
	assert.Empty(t, got, "nothing visible before swap")
	assert.Equal(t, 2, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []float64{1, 2}, got)
	assert.Equal(t, 0, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 2, "front buffer is cleared by the next swap")
}

func TestBusDispatchOrderFollowsFirstSeenType(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(TorpedoDud) { order = append(order, "dud") })
	Subscribe(b, func(VesselSunk) { order = append(order, "sunk") })

	for i := 0; i < 20; i++ {
		Emit(b, VesselSunk{})
		Emit(b, TorpedoDud{})
		b.SwapBuffers()
		b.DispatchAll()
	}
	for i := 0; i < len(order); i += 2 {
		assert.Equal(t, []string{"dud", "sunk"}, order[i:i+2])
	}
}

func TestEmitOnNilBus(t *testing.T) {
	assert.NotPanics(t, func() { Emit[TorpedoHit](nil, TorpedoHit{}) })
}

func TestDudReasonString(t *testing.T) {
	assert.Equal(t, "short_run", DudShortRun.String())
	assert.Equal(t, "malfunction", DudMalfunction.String())
	assert.Equal(t, "unknown", DudReason(42).String())
}
