package component

// Status is the life cycle of a vessel or weapon. Removal from the world is
// handled by the ECS destroy queue; Status only says whether the object
// still acts.
type Status uint8

const (
	Alive   Status = iota
	Sinking        // hit and going down, inert
	Dead           // killed outright, inert
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Sinking:
		return "sinking"
	case Dead:
		return "dead"
	}
	return "unknown"
}

func (s Status) IsAlive() bool { return s == Alive }
