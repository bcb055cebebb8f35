package component

import (
	"math"
	"testing"

	"github.com/seawolf/tactsim/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestMotionStraightRun(t *testing.T) {
	m := Motion{Heading: geo.Deg(90), Speed: 5, MaxSpeed: 10}
	m.Step(2, 5)
	assert.InDelta(t, 10, m.Pos.X, 1e-9)
	assert.InDelta(t, 0, m.Pos.Y, 1e-9)
	assert.Equal(t, geo.Deg(90), m.Heading)
}

func TestMotionAcceleration(t *testing.T) {
	m := Motion{MaxSpeed: 10, Accel: 0.5}
	m.Step(4, 10)
	assert.InDelta(t, 2, m.Speed, 1e-9)
	m.Step(100, 1)
	assert.InDelta(t, 1, m.Speed, 1e-9, "decelerates down to the wanted speed, not past it")
}

func TestMotionSteerStopsAtOrderedHeading(t *testing.T) {
	// 2 deg per metre at 5 m/s = 10 deg/s
	m := Motion{Speed: 5, MaxSpeed: 5, TurnRate: 2}
	m.SteerTo(geo.Deg(-25))
	m.Step(1, 5)
	assert.InDelta(t, 350, m.Heading.Value(), 1e-9, "turns to port by the short side")
	m.Step(1, 5)
	m.Step(1, 5)
	assert.InDelta(t, 335, m.Heading.Value(), 1e-9)
	assert.False(t, m.Steering)
}

func TestMotionCannotTurnWhenStopped(t *testing.T) {
	m := Motion{TurnRate: 2}
	m.SetRudder(HardRight)
	m.Step(10, 0)
	assert.Equal(t, geo.Angle(0), m.Heading)
}

func TestThrottleSpeeds(t *testing.T) {
	cases := []struct {
		th   Throttle
		want float64
	}{
		{AheadFlank, 10},
		{AheadFull, 7.5},
		{AheadHalf, 5},
		{AheadSonar, 2.5},
		{Stop, 0},
		{ReverseFull, -5},
		{Throttle(10), 10 * KnotsToMS},
		{Throttle(40), 10},
	}
	for _, c := range cases {
		t.Run(c.th.String(), func(t *testing.T) {
			assert.InDelta(t, c.want, c.th.Speed(10), 1e-9)
		})
	}
	assert.True(t, math.Abs(AheadSlow.Speed(9)-3) < 1e-9)
}

func TestMotionSteerToSideTakesLongWay(t *testing.T) {
	m := Motion{Speed: 5, MaxSpeed: 5, TurnRate: 2}
	m.SteerToSide(geo.Deg(-20), HardRight)
	m.Step(1, 5)
	assert.InDelta(t, 10, m.Heading.Value(), 1e-9)
	for i := 0; i < 40 && m.Steering; i++ {
		m.Step(1, 5)
	}
	assert.InDelta(t, 340, m.Heading.Value(), 1e-9)
}

func TestParseThrottle(t *testing.T) {
	th, err := ParseThrottle("ahead_half")
	assert.NoError(t, err)
	assert.Equal(t, AheadHalf, th)

	th, err = ParseThrottle("12")
	assert.NoError(t, err)
	assert.Equal(t, Throttle(12), th)

	_, err = ParseThrottle("full_astern")
	assert.Error(t, err)
	_, err = ParseThrottle("-3")
	assert.Error(t, err)
}
