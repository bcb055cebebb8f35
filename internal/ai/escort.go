package ai

import (
	"math"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/sensor"
)

// actEscort is one decision of an escort: look, listen or ping for
// submarines, then hunt the contact and drop charges over it.
func (c *Controller) actEscort(h Host) {
	if !h.Alive() {
		c.actDumb(h)
		return
	}

	own := h.Position().XY()
	var nearest *sensor.Contact
	dist := math.Inf(1)
	seen := h.VisibleSubmarines()
	for i := range seen {
		if d := seen[i].Pos.XY().Distance(own); d < dist {
			dist = d
			nearest = &seen[i]
		}
	}

	if nearest != nil {
		if dist <= h.MaxGunRange() {
			if h.FireGunAt(nearest.Target) == gunnery.NotManned {
				h.ManGuns()
			}
		}
		c.AttackContact(nearest.Pos)
		c.reportContact(h, nearest.Pos)
		h.SetThrottle(component.AheadFlank)
		c.AttackRun = true
	}

	if !c.AttackRun {
		if heard := h.SonarSubmarines(); len(heard) > 0 {
			c.AttackContact(heard[0].Pos.XY().XY0())
		} else if fixes := h.PingASDIC(true, 0); len(fixes) > 0 {
			c.reportContact(h, fixes[0].Pos)
			c.AttackContact(fixes[0].Pos)
		}
	}

	switch c.State {
	case FollowPath, FollowObject:
		c.actDumb(h)
	case AttackContact:
		c.attack(h)
	}

	if c.EvasiveRemaining > 0 {
		c.EvasiveRemaining -= CycleTime
	}
}

func (c *Controller) attack(h Host) {
	if !(c.Evasive && c.EvasiveRemaining > 0) {
		c.Evasive = !c.SetCourseToPos(h, c.Contact.XY())
		if c.Evasive {
			// wait for the half circle to complete
			wait := 180 / (h.TurnRate() * math.Max(math.Abs(h.Speed()), minEvasiveSpeed))
			c.EvasiveRemaining = math.Ceil(wait/CycleTime) * CycleTime
		}
	}

	delta := c.Contact.XY().Sub(h.Position().XY())
	cd := delta.Length()
	if cd > AttackRunRadius && !c.AttackRun {
		if fixes := h.PingASDIC(false, geo.AngleOf(delta)); len(fixes) > 0 {
			c.reportContact(h, fixes[0].Pos)
			c.AttackContact(fixes[0].Pos)
		}
	} else {
		h.SetThrottle(component.AheadFlank)
		c.AttackRun = true
	}

	if cd < ChargeRadius {
		h.DropDepthCharge(math.Max(c.Contact.Depth(), MinChargeDepth))
		c.Relax(h)
	}
}

func (c *Controller) reportContact(h Host, pos geo.Vec3) {
	if !c.Convoy.IsZero() {
		h.ConvoyContact(c.Convoy, pos)
	}
}
