package data

import (
	"fmt"
	"os"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/damage"
	"github.com/seawolf/tactsim/internal/gunnery"
	"gopkg.in/yaml.v3"
)

// BatteryInfo is the battery drain and recharge model. Drain per second is
// a·(exp(v/t) − 1) on electric motors; recharge on diesels is
// 1 − ra·exp(−v/rt), scaled by RechargeScale.
type BatteryInfo struct {
	ConsumptionA  float64 `yaml:"consumption_a"`
	ConsumptionT  float64 `yaml:"consumption_t"`
	RechargeA     float64 `yaml:"recharge_a"`
	RechargeT     float64 `yaml:"recharge_t"`
	RechargeScale float64 `yaml:"recharge_scale"`
}

// SubmarineClass holds static data for a submarine type loaded from YAML.
type SubmarineClass struct {
	Class          string                  `yaml:"class"`
	Length         float64                 `yaml:"length"`
	Width          float64                 `yaml:"width"`
	Height         float64                 `yaml:"height"`
	Tonnage        int                     `yaml:"tonnage"`
	SurfaceSpeed   float64                 `yaml:"surface_speed"`   // knots
	SubmergedSpeed float64                 `yaml:"submerged_speed"` // knots
	Acceleration   float64                 `yaml:"acceleration"`
	TurnRate       float64                 `yaml:"turn_rate"`
	DiveRate       float64                 `yaml:"dive_rate"` // m/s
	MaxDepth       float64                 `yaml:"max_depth"`
	PeriscopeDepth float64                 `yaml:"periscope_depth"`
	SnorkelDepth   float64                 `yaml:"snorkel_depth"` // 0: no snorkel
	Battery        BatteryInfo             `yaml:"battery"`
	Fuel           FuelInfo                `yaml:"fuel"`
	Torpedoes      component.Layout        `yaml:"torpedoes"`
	TransferTimes  component.TransferTimes `yaml:"transfer_times"`
	Parts          []damage.Part           `yaml:"parts"`
	Guns           []gunnery.Turret        `yaml:"guns"`
	Sensors        SensorInfo              `yaml:"sensors"`
}

func (c *SubmarineClass) validate() error {
	switch {
	case c.Class == "":
		return invalid("submarine_list", c.Class, "missing class")
	case c.Length <= 0 || c.Width <= 0:
		return invalid("submarine_list", c.Class, "hull size %gx%g", c.Length, c.Width)
	case c.SurfaceSpeed <= 0 || c.SubmergedSpeed <= 0:
		return invalid("submarine_list", c.Class, "speeds %g/%g", c.SurfaceSpeed, c.SubmergedSpeed)
	case c.TurnRate <= 0:
		return invalid("submarine_list", c.Class, "turn_rate %g", c.TurnRate)
	case c.DiveRate <= 0:
		return invalid("submarine_list", c.Class, "dive_rate %g", c.DiveRate)
	case c.MaxDepth <= c.PeriscopeDepth:
		return invalid("submarine_list", c.Class, "max_depth %g not below periscope depth %g", c.MaxDepth, c.PeriscopeDepth)
	case c.Torpedoes.BowTubes+c.Torpedoes.SternTubes == 0:
		return invalid("submarine_list", c.Class, "no torpedo tubes")
	}
	for _, p := range c.Parts {
		if p.Name == "" {
			return invalid("submarine_list", c.Class, "unnamed damage part")
		}
	}
	return nil
}

type submarineListFile struct {
	Submarines []SubmarineClass `yaml:"submarines"`
}

// SubmarineTable holds all submarine classes indexed by class name.
type SubmarineTable struct {
	classes map[string]*SubmarineClass
}

// LoadSubmarineTable loads submarine classes from a YAML file.
func LoadSubmarineTable(path string) (*SubmarineTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submarine_list: %w", err)
	}
	var f submarineListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse submarine_list: %w", err)
	}
	t := &SubmarineTable{classes: make(map[string]*SubmarineClass, len(f.Submarines))}
	for i := range f.Submarines {
		c := &f.Submarines[i]
		if err := c.validate(); err != nil {
			return nil, err
		}
		t.classes[c.Class] = c
	}
	return t, nil
}

// Get returns a submarine class by name, or nil if not found.
func (t *SubmarineTable) Get(class string) *SubmarineClass {
	return t.classes[class]
}

// Count returns the number of loaded classes.
func (t *SubmarineTable) Count() int {
	return len(t.classes)
}
