package data

import (
	"fmt"
	"os"

	"github.com/seawolf/tactsim/internal/gunnery"
	"gopkg.in/yaml.v3"
)

// SensorInfo lists the sensors a class carries. An empty sonar kind means
// the class has none.
type SensorInfo struct {
	Lookout       bool    `yaml:"lookout"`
	LookoutFactor float64 `yaml:"lookout_factor"`
	Passive       string  `yaml:"passive"`
	Active        string  `yaml:"active"`
}

// FuelInfo is the exponential consumption model: rate = a·(exp(v/t) − 1)
// per second at throttle speed v (m/s), as a fraction of a full load.
type FuelInfo struct {
	ConsumptionA float64 `yaml:"consumption_a"`
	ConsumptionT float64 `yaml:"consumption_t"`
}

// ShipClass holds static data for a surface ship class loaded from YAML.
type ShipClass struct {
	Class        string           `yaml:"class"`
	Role         string           `yaml:"role"` // merchant, warship, escort
	Length       float64          `yaml:"length"`
	Width        float64          `yaml:"width"`
	Height       float64          `yaml:"height"`
	Tonnage      int              `yaml:"tonnage"`
	MaxSpeed     float64          `yaml:"max_speed"` // knots
	Acceleration float64          `yaml:"acceleration"`
	TurnRate     float64          `yaml:"turn_rate"` // degrees per metre
	Fuel         FuelInfo         `yaml:"fuel"`
	Sensors      SensorInfo       `yaml:"sensors"`
	Guns         []gunnery.Turret `yaml:"guns"`
}

func (c *ShipClass) validate() error {
	switch {
	case c.Class == "":
		return invalid("ship_list", c.Class, "missing class")
	case c.Length <= 0 || c.Width <= 0:
		return invalid("ship_list", c.Class, "hull size %gx%g", c.Length, c.Width)
	case c.MaxSpeed <= 0:
		return invalid("ship_list", c.Class, "max_speed %g", c.MaxSpeed)
	case c.TurnRate <= 0:
		return invalid("ship_list", c.Class, "turn_rate %g", c.TurnRate)
	}
	switch c.Role {
	case "merchant", "warship", "escort":
	default:
		return invalid("ship_list", c.Class, "role %q", c.Role)
	}
	for i, g := range c.Guns {
		if g.Velocity <= 0 {
			return invalid("ship_list", c.Class, "gun %d muzzle velocity %g", i, g.Velocity)
		}
	}
	return nil
}

type shipListFile struct {
	Ships []ShipClass `yaml:"ships"`
}

// ShipTable holds all ship classes indexed by class name.
type ShipTable struct {
	classes map[string]*ShipClass
}

// LoadShipTable loads ship classes from a YAML file.
func LoadShipTable(path string) (*ShipTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ship_list: %w", err)
	}
	var f shipListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ship_list: %w", err)
	}
	t := &ShipTable{classes: make(map[string]*ShipClass, len(f.Ships))}
	for i := range f.Ships {
		c := &f.Ships[i]
		if err := c.validate(); err != nil {
			return nil, err
		}
		t.classes[c.Class] = c
	}
	return t, nil
}

// Get returns a ship class by name, or nil if not found.
func (t *ShipTable) Get(class string) *ShipClass {
	return t.classes[class]
}

// Count returns the number of loaded classes.
func (t *ShipTable) Count() int {
	return len(t.classes)
}
