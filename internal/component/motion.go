package component

import (
	"math"

	"github.com/seawolf/tactsim/internal/geo"
)

// Rudder is a standing rudder order used when the helm is not steering to a
// heading. Values scale the turn rate.
type Rudder float64

const (
	HardLeft  Rudder = -1
	Midships  Rudder = 0
	HardRight Rudder = 1
)

// Motion is the kinematic state shared by every sea object.
//
// TurnRate is degrees of heading change per metre run, so the angular
// velocity is TurnRate·|Speed| and the tightest turning circle has radius
// 1/TurnRate (in radians). A hull that is not moving cannot turn.
type Motion struct {
	Pos      geo.Vec3
	Heading  geo.Angle
	Speed    float64 // m/s along Heading, negative astern
	MaxSpeed float64
	Accel    float64 // m/s², 0 means speed changes instantly
	TurnRate float64
	Throttle Throttle

	HeadTo   geo.Angle
	Steering bool   // helm is turning to HeadTo
	Side     Rudder // forced turn side while steering, Midships = shorter side
	Rudder   Rudder
}

// SteerTo orders the helm to turn to h by the shorter side.
func (m *Motion) SteerTo(h geo.Angle) {
	m.SteerToSide(h, Midships)
}

// SteerToSide turns to h over the given side, HardLeft or HardRight.
func (m *Motion) SteerToSide(h geo.Angle, side Rudder) {
	m.HeadTo = h
	m.Steering = true
	m.Side = side
	m.Rudder = Midships
}

// SetRudder drops any heading order and holds a fixed rudder.
func (m *Motion) SetRudder(r Rudder) {
	m.Steering = false
	m.Rudder = r
}

// Direction is the unit vector along the heading.
func (m *Motion) Direction() geo.Vec2 { return m.Heading.Direction() }

// Velocity is the horizontal velocity vector.
func (m *Motion) Velocity() geo.Vec2 { return m.Direction().Scale(m.Speed) }

// TurnRateRad is the turn rate in radians per metre.
func (m *Motion) TurnRateRad() float64 { return m.TurnRate * math.Pi / 180 }

// Step advances the hull by dt seconds towards the wanted speed. Speed and
// heading are updated first, the position moves with the new values.
func (m *Motion) Step(dt, wanted float64) {
	if dt <= 0 {
		return
	}
	if m.Accel <= 0 {
		m.Speed = wanted
	} else {
		dv := m.Accel * dt
		switch {
		case m.Speed < wanted:
			m.Speed = math.Min(wanted, m.Speed+dv)
		case m.Speed > wanted:
			m.Speed = math.Max(wanted, m.Speed-dv)
		}
	}

	turn := m.TurnRate * math.Abs(m.Speed) * dt
	if m.Steering {
		diff := m.HeadTo.Diff(m.Heading)
		switch {
		case m.Side > 0 && diff < 0:
			diff += 360
		case m.Side < 0 && diff > 0:
			diff -= 360
		}
		if math.Abs(diff) <= turn {
			m.Heading = m.HeadTo
			m.Steering = false
		} else if diff > 0 {
			m.Heading = m.Heading.Add(turn)
		} else {
			m.Heading = m.Heading.Add(-turn)
		}
	} else if m.Rudder != Midships {
		m.Heading = m.Heading.Add(float64(m.Rudder) * turn)
	}

	v := m.Direction().Scale(m.Speed * dt)
	m.Pos.X += v.X
	m.Pos.Y += v.Y
}
