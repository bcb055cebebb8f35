package data

import (
	"fmt"
	"os"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/seawolf/tactsim/internal/weapon"
	"gopkg.in/yaml.v3"
)

// TorpedoType holds static data for a torpedo type loaded from YAML.
type TorpedoType struct {
	Kind               string  `yaml:"kind"`
	Speed              float64 `yaml:"speed"` // knots
	Range              float64 `yaml:"range"`
	ArmingDistance     float64 `yaml:"arming_distance"`
	TurnRate           float64 `yaml:"turn_rate"`
	HitPoints          int     `yaml:"hit_points"`
	Seeker             string  `yaml:"seeker"`
	ActivationDistance float64 `yaml:"activation_distance"`
}

// Spec converts the type to the weapon package form.
func (t *TorpedoType) Spec() weapon.TorpedoSpec {
	return weapon.TorpedoSpec{
		Kind:               t.Kind,
		Speed:              t.Speed * component.KnotsToMS,
		Range:              t.Range,
		ArmingDistance:     t.ArmingDistance,
		TurnRate:           t.TurnRate,
		HitPoints:          t.HitPoints,
		Seeker:             sensor.PassiveKind(t.Seeker),
		ActivationDistance: t.ActivationDistance,
	}
}

func (t *TorpedoType) validate() error {
	switch {
	case t.Kind == "":
		return invalid("torpedo_list", t.Kind, "missing kind")
	case t.Speed <= 0:
		return invalid("torpedo_list", t.Kind, "speed %g", t.Speed)
	case t.Range <= 0:
		return invalid("torpedo_list", t.Kind, "range %g", t.Range)
	case t.ArmingDistance < 0:
		return invalid("torpedo_list", t.Kind, "arming_distance %g", t.ArmingDistance)
	}
	if t.Seeker != "" {
		if _, err := sensor.NewPassiveSonar(sensor.PassiveKind(t.Seeker)); err != nil {
			return invalid("torpedo_list", t.Kind, "%v", err)
		}
	}
	return nil
}

type torpedoListFile struct {
	Torpedoes []TorpedoType `yaml:"torpedoes"`
}

// TorpedoTable holds all torpedo types indexed by kind.
type TorpedoTable struct {
	types map[string]*TorpedoType
}

// LoadTorpedoTable loads torpedo types from a YAML file.
func LoadTorpedoTable(path string) (*TorpedoTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read torpedo_list: %w", err)
	}
	var f torpedoListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse torpedo_list: %w", err)
	}
	t := &TorpedoTable{types: make(map[string]*TorpedoType, len(f.Torpedoes))}
	for i := range f.Torpedoes {
		tt := &f.Torpedoes[i]
		if err := tt.validate(); err != nil {
			return nil, err
		}
		t.types[tt.Kind] = tt
	}
	return t, nil
}

// Get returns a torpedo type by kind, or nil if not found.
func (t *TorpedoTable) Get(kind string) *TorpedoType {
	return t.types[kind]
}

// Count returns the number of loaded types.
func (t *TorpedoTable) Count() int {
	return len(t.types)
}
