package component

import (
	"fmt"
	"strconv"
)

// KnotsToMS converts knots to metres per second.
const KnotsToMS = 1852.0 / 3600.0

// Throttle is an engine order. Non-positive values are telegraph presets,
// positive values request that many knots.
type Throttle int

const (
	ReverseFull Throttle = -9
	ReverseHalf Throttle = -8
	Reverse     Throttle = -7
	AheadListen Throttle = -6
	AheadSonar  Throttle = -5
	AheadSlow   Throttle = -4
	AheadHalf   Throttle = -3
	AheadFull   Throttle = -2
	AheadFlank  Throttle = -1
	Stop        Throttle = 0
)

// Speed returns the ordered speed in m/s for a hull whose top speed is maxSpeed.
func (t Throttle) Speed(maxSpeed float64) float64 {
	switch t {
	case ReverseFull:
		return -maxSpeed * 0.5
	case ReverseHalf:
		return -maxSpeed / 3
	case Reverse:
		return -maxSpeed * 0.25
	case Stop:
		return 0
	case AheadListen, AheadSonar:
		return maxSpeed * 0.25
	case AheadSlow:
		return maxSpeed / 3
	case AheadHalf:
		return maxSpeed * 0.5
	case AheadFull:
		return maxSpeed * 0.75
	case AheadFlank:
		return maxSpeed
	}
	if t < 0 {
		return 0
	}
	sp := float64(t) * KnotsToMS
	if sp > maxSpeed {
		sp = maxSpeed
	}
	return sp
}

func (t Throttle) String() string {
	switch t {
	case ReverseFull:
		return "reverse_full"
	case ReverseHalf:
		return "reverse_half"
	case Reverse:
		return "reverse"
	case AheadListen:
		return "ahead_listen"
	case AheadSonar:
		return "ahead_sonar"
	case AheadSlow:
		return "ahead_slow"
	case AheadHalf:
		return "ahead_half"
	case AheadFull:
		return "ahead_full"
	case AheadFlank:
		return "ahead_flank"
	case Stop:
		return "stop"
	}
	if t > 0 {
		return "knots"
	}
	return "unknown"
}

// ParseThrottle reads a preset name as written by String or a plain number
// of knots.
func ParseThrottle(s string) (Throttle, error) {
	for t := ReverseFull; t <= Stop; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	kn, err := strconv.Atoi(s)
	if err != nil || kn <= 0 {
		return Stop, fmt.Errorf("unknown throttle %q", s)
	}
	return Throttle(kn), nil
}
