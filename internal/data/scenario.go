package data

import (
	"fmt"
	"os"

	"github.com/seawolf/tactsim/internal/component"
	"gopkg.in/yaml.v3"
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EnvironmentInfo is the fixed viewing condition of a scenario; a script
// hook may override it at run time.
type EnvironmentInfo struct {
	Visibility      float64 `yaml:"visibility"`
	MaxViewDistance float64 `yaml:"max_view_distance"`
}

type ConvoyEntry struct {
	Name      string  `yaml:"name"`
	Speed     float64 `yaml:"speed"` // knots
	Waypoints []Point `yaml:"waypoints"`
}

type ShipEntry struct {
	Name      string  `yaml:"name"`
	Class     string  `yaml:"class"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Heading   float64 `yaml:"heading"`
	Throttle  string  `yaml:"throttle"`
	AI        string  `yaml:"ai"` // none, dumb, escort, convoy
	Convoy    string  `yaml:"convoy"`
	Follow    string  `yaml:"follow"`
	Waypoints []Point `yaml:"waypoints"`
	Cyclic    bool    `yaml:"cyclic"`
}

// LoadEntry puts Count torpedoes of one kind into a storage location.
type LoadEntry struct {
	Location string `yaml:"location"`
	Torpedo  string `yaml:"torpedo"`
	Count    int    `yaml:"count"`
}

type SubmarineEntry struct {
	Name     string      `yaml:"name"`
	Class    string      `yaml:"class"`
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Depth    float64     `yaml:"depth"`
	Heading  float64     `yaml:"heading"`
	Throttle string      `yaml:"throttle"`
	AI       string      `yaml:"ai"`
	Loadout  []LoadEntry `yaml:"loadout"`
}

// Scenario is the starting situation of a run.
type Scenario struct {
	Name        string           `yaml:"name"`
	Environment EnvironmentInfo  `yaml:"environment"`
	Convoys     []ConvoyEntry    `yaml:"convoys"`
	Ships       []ShipEntry      `yaml:"ships"`
	Submarines  []SubmarineEntry `yaml:"submarines"`
}

// LoadScenario reads a scenario file. Class references are checked by
// Validate once the tables are loaded.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Environment.Visibility == 0 {
		sc.Environment.Visibility = 1
	}
	return &sc, nil
}

var aiKinds = map[string]bool{"": true, "none": true, "dumb": true, "escort": true, "convoy": true}

// Validate checks every class, torpedo and convoy reference.
func (sc *Scenario) Validate(ships *ShipTable, subs *SubmarineTable, torps *TorpedoTable) error {
	convoys := make(map[string]bool, len(sc.Convoys))
	for _, c := range sc.Convoys {
		if c.Name == "" || convoys[c.Name] {
			return invalid("scenario", c.Name, "convoy name missing or duplicated")
		}
		convoys[c.Name] = true
	}
	names := make(map[string]bool)
	for _, e := range sc.Ships {
		if ships.Get(e.Class) == nil {
			return invalid("scenario", e.Name, "unknown ship class %q", e.Class)
		}
		if err := sc.checkCommon("ship", e.Name, e.Throttle, e.AI, names); err != nil {
			return err
		}
		if e.Convoy != "" && !convoys[e.Convoy] {
			return invalid("scenario", e.Name, "unknown convoy %q", e.Convoy)
		}
	}
	for _, e := range sc.Ships {
		if e.Follow != "" && !names[e.Follow] {
			return invalid("scenario", e.Name, "follows unknown vessel %q", e.Follow)
		}
	}
	for _, e := range sc.Submarines {
		cls := subs.Get(e.Class)
		if cls == nil {
			return invalid("scenario", e.Name, "unknown submarine class %q", e.Class)
		}
		if err := sc.checkCommon("submarine", e.Name, e.Throttle, e.AI, names); err != nil {
			return err
		}
		if e.Depth < 0 || e.Depth > cls.MaxDepth {
			return invalid("scenario", e.Name, "depth %g", e.Depth)
		}
		for _, l := range e.Loadout {
			if component.LocationByName(l.Location) == component.LocNone {
				return invalid("scenario", e.Name, "unknown torpedo location %q", l.Location)
			}
			if torps.Get(l.Torpedo) == nil {
				return invalid("scenario", e.Name, "unknown torpedo %q", l.Torpedo)
			}
		}
	}
	return nil
}

func (sc *Scenario) checkCommon(what, name, throttle, ai string, names map[string]bool) error {
	if name == "" || names[name] {
		return invalid("scenario", name, "%s name missing or duplicated", what)
	}
	names[name] = true
	if throttle != "" {
		if _, err := component.ParseThrottle(throttle); err != nil {
			return invalid("scenario", name, "%v", err)
		}
	}
	if !aiKinds[ai] {
		return invalid("scenario", name, "unknown ai %q", ai)
	}
	return nil
}
